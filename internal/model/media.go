package model

import (
	"time"
)

type MediaKind string

const (
	MediaImage    MediaKind = "IMAGE"
	MediaDocument MediaKind = "DOCUMENT"
)

// MediaAsset is one entry of an ad's ordered gallery. Rows are disposable:
// updates replace the whole set, keyed only by ad and position.
type MediaAsset struct {
	ID         int64     `db:"id" json:"id"`
	AdID       int64     `db:"ad_id" json:"adId"`
	StorageKey string    `db:"storage_key" json:"storageKey"`
	Kind       MediaKind `db:"kind" json:"kind"`
	Position   int       `db:"position" json:"position"`
	Width      *int      `db:"width" json:"width"`
	Height     *int      `db:"height" json:"height"`
	SizeBytes  *int64    `db:"size_bytes" json:"sizeBytes"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
