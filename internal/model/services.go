package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceKind string

const (
	ServiceTutoring ServiceKind = "TUTORING"
	ServiceCleaning ServiceKind = "CLEANING"
	ServiceMoving   ServiceKind = "MOVING"
	ServiceRepairs  ServiceKind = "REPAIRS"
	ServiceOther    ServiceKind = "OTHER"
)

func (k ServiceKind) Valid() bool {
	switch k {
	case ServiceTutoring, ServiceCleaning, ServiceMoving, ServiceRepairs, ServiceOther:
		return true
	}
	return false
}

type RateUnit string

const (
	RatePerHour    RateUnit = "HOUR"
	RatePerSession RateUnit = "SESSION"
	RateFlat       RateUnit = "FLAT"
)

func (u RateUnit) Valid() bool {
	switch u {
	case RatePerHour, RatePerSession, RateFlat:
		return true
	}
	return false
}

type ServiceDetail struct {
	AdID            int64               `db:"ad_id" json:"-"`
	ServiceKind     ServiceKind         `db:"service_kind" json:"serviceKind"`
	RateUnit        RateUnit            `db:"rate_unit" json:"rateUnit"`
	PriceAmount     decimal.NullDecimal `db:"price_amount" json:"priceAmount"`
	PriceNegotiable bool                `db:"price_negotiable" json:"priceNegotiable"`
	RemoteAvailable bool                `db:"remote_available" json:"remoteAvailable"`
}

func (*ServiceDetail) Category() AdCategory { return CategoryServices }

func (d *ServiceDetail) Normalize() {
	if d.ServiceKind == "" {
		d.ServiceKind = ServiceOther
	}
	if d.RateUnit == "" {
		d.RateUnit = RateFlat
	}
	if d.PriceNegotiable {
		d.PriceAmount = decimal.NullDecimal{}
	}
}

func (d *ServiceDetail) ExpiresAt() *time.Time { return nil }
