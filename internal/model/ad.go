package model

import (
	"time"
)

type AdCategory string

const (
	CategoryHousing        AdCategory = "HOUSING"
	CategoryTransportation AdCategory = "TRANSPORTATION"
	CategoryMarketplace    AdCategory = "MARKETPLACE"
	CategoryServices       AdCategory = "SERVICES"
)

func (c AdCategory) Valid() bool {
	switch c {
	case CategoryHousing, CategoryTransportation, CategoryMarketplace, CategoryServices:
		return true
	}
	return false
}

type AdStatus string

const (
	AdStatusPending  AdStatus = "PENDING"
	AdStatusOnline   AdStatus = "ONLINE"
	AdStatusRejected AdStatus = "REJECTED"
	AdStatusExpired  AdStatus = "EXPIRED"
)

func (s AdStatus) Valid() bool {
	switch s {
	case AdStatusPending, AdStatusOnline, AdStatusRejected, AdStatusExpired:
		return true
	}
	return false
}

// AdRejectionCode is the fixed list of reasons a moderator can give
// when rejecting an ad.
type AdRejectionCode string

const (
	AdRejectDuplicate         AdRejectionCode = "DUPLICATE"
	AdRejectProhibitedContent AdRejectionCode = "PROHIBITED_CONTENT"
	AdRejectMisleadingInfo    AdRejectionCode = "MISLEADING_INFO"
	AdRejectWrongCategory     AdRejectionCode = "WRONG_CATEGORY"
	AdRejectPoorImages        AdRejectionCode = "POOR_QUALITY_IMAGES"
	AdRejectSuspectedScam     AdRejectionCode = "SUSPECTED_SCAM"
	AdRejectOther             AdRejectionCode = "OTHER"
)

func (c AdRejectionCode) Valid() bool {
	switch c {
	case AdRejectDuplicate, AdRejectProhibitedContent, AdRejectMisleadingInfo,
		AdRejectWrongCategory, AdRejectPoorImages, AdRejectSuspectedScam, AdRejectOther:
		return true
	}
	return false
}

// AdDetail is the category-specific sub-record owned one-to-one by an Ad.
// Exactly one implementation exists per category, so an ad can never carry
// the wrong detail shape; the stored-category check in the service remains
// as defense against malformed rows.
type AdDetail interface {
	Category() AdCategory

	// Normalize forces fields that do not apply to the active variant back
	// to their neutral defaults. Idempotent.
	Normalize()

	// ExpiresAt returns the expiration date derived from the detail's
	// availability data, or nil if the category has no natural expiry.
	ExpiresAt() *time.Time
}

type Ad struct {
	ID                 int64      `db:"id" json:"id"`
	UserID             string     `db:"user_id" json:"userId"`
	CityID             int64      `db:"city_id" json:"cityId"`
	Category           AdCategory `db:"category" json:"category"`
	Status             AdStatus   `db:"status" json:"status"`
	Title              string     `db:"title" json:"title"`
	Description        string     `db:"description" json:"description"`
	ExpirationDate     *time.Time `db:"expiration_date" json:"expirationDate"`
	ViewsCount         int        `db:"views_count" json:"viewsCount"`
	ContactClicksCount int        `db:"contact_clicks_count" json:"contactClicksCount"`
	CoverMediaID       *int64     `db:"cover_media_id" json:"coverMediaId"`
	MediaCount         int        `db:"media_count" json:"mediaCount"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`

	// Loaded relations (not columns)
	Detail AdDetail      `db:"-" json:"detail,omitempty"`
	Media  []*MediaAsset `db:"-" json:"media,omitempty"`
}

// EffectiveStatus is the single source of truth for read-time status
// derivation: an ad whose expiration date has passed reads as EXPIRED no
// matter what is stored. The derived value is never written back.
func (a *Ad) EffectiveStatus(now time.Time) AdStatus {
	if a.ExpirationDate != nil && a.ExpirationDate.Before(now) {
		return AdStatusExpired
	}
	return a.Status
}

// ApplyEffectiveStatus overwrites the in-memory status with the derived one
// for display. Call on every read path, never before a write.
func (a *Ad) ApplyEffectiveStatus(now time.Time) {
	a.Status = a.EffectiveStatus(now)
}

// CanApprove reports whether an ad in the given status may transition to
// ONLINE via the approve action. ONLINE ads cannot be re-approved.
func CanApprove(s AdStatus) bool {
	return s == AdStatusPending || s == AdStatusRejected || s == AdStatusExpired
}

// AdWithOwner is the moderation read model: the ad plus the owner columns
// joined in for queue display and free-text search.
type AdWithOwner struct {
	Ad
	OwnerName  string `db:"owner_name" json:"ownerName"`
	OwnerEmail string `db:"owner_email" json:"ownerEmail"`
}

// BulkResult reports the per-id outcome of a bulk moderation action.
// Partial failure is a normal result, not an error.
type BulkResult struct {
	Successful []int64 `json:"successful"`
	Failed     []int64 `json:"failed"`
}
