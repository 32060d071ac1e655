package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleKind string

const (
	VehicleCar       VehicleKind = "CAR"
	VehicleMotorbike VehicleKind = "MOTORBIKE"
	VehicleScooter   VehicleKind = "SCOOTER"
	VehicleBicycle   VehicleKind = "BICYCLE"
)

func (k VehicleKind) Valid() bool {
	switch k {
	case VehicleCar, VehicleMotorbike, VehicleScooter, VehicleBicycle:
		return true
	}
	return false
}

type TransportationDetail struct {
	AdID            int64               `db:"ad_id" json:"-"`
	VehicleKind     VehicleKind         `db:"vehicle_kind" json:"vehicleKind"`
	Brand           *string             `db:"brand" json:"brand"`
	Model           *string             `db:"model" json:"model"`
	Year            *int                `db:"year" json:"year"`
	MileageKm       *int                `db:"mileage_km" json:"mileageKm"`
	FuelType        *string             `db:"fuel_type" json:"fuelType"`
	PriceAmount     decimal.NullDecimal `db:"price_amount" json:"priceAmount"`
	PriceNegotiable bool                `db:"price_negotiable" json:"priceNegotiable"`
}

func (*TransportationDetail) Category() AdCategory { return CategoryTransportation }

func (d *TransportationDetail) Normalize() {
	// Mileage and fuel only make sense for motorized vehicles.
	if d.VehicleKind == VehicleBicycle {
		d.MileageKm = nil
		d.FuelType = nil
	}
	if d.PriceNegotiable {
		d.PriceAmount = decimal.NullDecimal{}
	}
}

func (d *TransportationDetail) ExpiresAt() *time.Time { return nil }
