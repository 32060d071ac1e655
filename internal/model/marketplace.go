package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemCondition string

const (
	ConditionNew     ItemCondition = "NEW"
	ConditionLikeNew ItemCondition = "LIKE_NEW"
	ConditionGood    ItemCondition = "GOOD"
	ConditionFair    ItemCondition = "FAIR"
)

func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair:
		return true
	}
	return false
}

type MarketplaceDetail struct {
	AdID              int64               `db:"ad_id" json:"-"`
	ItemCondition     ItemCondition       `db:"item_condition" json:"itemCondition"`
	Brand             *string             `db:"brand" json:"brand"`
	PriceAmount       decimal.NullDecimal `db:"price_amount" json:"priceAmount"`
	PriceNegotiable   bool                `db:"price_negotiable" json:"priceNegotiable"`
	DeliveryAvailable bool                `db:"delivery_available" json:"deliveryAvailable"`
}

func (*MarketplaceDetail) Category() AdCategory { return CategoryMarketplace }

func (d *MarketplaceDetail) Normalize() {
	if d.ItemCondition == "" {
		d.ItemCondition = ConditionGood
	}
	if d.PriceNegotiable {
		d.PriceAmount = decimal.NullDecimal{}
	}
}

func (d *MarketplaceDetail) ExpiresAt() *time.Time { return nil }
