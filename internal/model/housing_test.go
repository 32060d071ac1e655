package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func money(v string) decimal.NullDecimal {
	d, _ := decimal.NewFromString(v)
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func TestHousingNormalizeTemporary(t *testing.T) {
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	d := &HousingDetail{
		RentalKind:           RentalTemporary,
		PropertyType:         "room",
		PriceAmount:          money("450.00"),
		AvailabilityEndDate:  &end,
		ContractType:         ContractStandard,
		ResidenzaAvailable:   true,
		DepositAmount:        money("900.00"),
		AgencyFeeAmount:      money("450.00"),
		BillsPolicy:          BillsExcluded,
		BillsMonthlyEstimate: money("80.00"),
		BillsNotes:           strPtr("gas separate"),
	}

	d.Normalize()

	assert.Equal(t, ContractNone, d.ContractType)
	assert.False(t, d.ResidenzaAvailable)
	assert.False(t, d.DepositAmount.Valid)
	assert.False(t, d.AgencyFeeAmount.Valid)
	assert.Equal(t, BillsIncluded, d.BillsPolicy)
	assert.False(t, d.BillsMonthlyEstimate.Valid)
	assert.Nil(t, d.BillsNotes)

	// fields that do apply survive
	assert.Equal(t, &end, d.AvailabilityEndDate)
	assert.True(t, d.PriceAmount.Valid)
}

func TestHousingNormalizePermanent(t *testing.T) {
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	d := &HousingDetail{
		RentalKind:          RentalPermanent,
		PropertyType:        "apartment",
		AvailabilityEndDate: &end,
	}

	d.Normalize()

	assert.Nil(t, d.AvailabilityEndDate)
	assert.Equal(t, ContractStandard, d.ContractType)
	assert.Equal(t, BillsExcluded, d.BillsPolicy)
}

func TestHousingNormalizePermanentKeepsExplicitContract(t *testing.T) {
	d := &HousingDetail{
		RentalKind:   RentalPermanent,
		ContractType: ContractStudent,
		BillsPolicy:  BillsPartial,
	}

	d.Normalize()

	assert.Equal(t, ContractStudent, d.ContractType)
	assert.Equal(t, BillsPartial, d.BillsPolicy)
}

func TestHousingNormalizeIdempotent(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	d := &HousingDetail{
		RentalKind:            RentalTemporary,
		PropertyType:          "room",
		PriceAmount:           money("500.00"),
		AvailabilityStartDate: &start,
	}

	d.Normalize()
	first := *d
	d.Normalize()

	assert.Equal(t, first, *d)
}

func TestNormalizeNegotiableClearsPrice(t *testing.T) {
	details := []AdDetail{
		&HousingDetail{RentalKind: RentalPermanent, PriceAmount: money("700.00"), PriceNegotiable: true},
		&TransportationDetail{VehicleKind: VehicleCar, PriceAmount: money("3500.00"), PriceNegotiable: true},
		&MarketplaceDetail{PriceAmount: money("50.00"), PriceNegotiable: true},
		&ServiceDetail{PriceAmount: money("25.00"), PriceNegotiable: true},
	}

	for _, detail := range details {
		detail.Normalize()
	}

	assert.False(t, details[0].(*HousingDetail).PriceAmount.Valid)
	assert.False(t, details[1].(*TransportationDetail).PriceAmount.Valid)
	assert.False(t, details[2].(*MarketplaceDetail).PriceAmount.Valid)
	assert.False(t, details[3].(*ServiceDetail).PriceAmount.Valid)
}

func TestTransportationNormalizeBicycle(t *testing.T) {
	km := 1200
	d := &TransportationDetail{
		VehicleKind: VehicleBicycle,
		MileageKm:   &km,
		FuelType:    strPtr("petrol"),
	}

	d.Normalize()

	assert.Nil(t, d.MileageKm)
	assert.Nil(t, d.FuelType)
}

func TestTransportationNormalizeKeepsMotorizedFields(t *testing.T) {
	km := 85000
	d := &TransportationDetail{
		VehicleKind: VehicleCar,
		MileageKm:   &km,
		FuelType:    strPtr("diesel"),
	}

	d.Normalize()

	assert.Equal(t, &km, d.MileageKm)
	assert.NotNil(t, d.FuelType)
}

func TestMarketplaceAndServiceDefaults(t *testing.T) {
	m := &MarketplaceDetail{}
	m.Normalize()
	assert.Equal(t, ConditionGood, m.ItemCondition)

	s := &ServiceDetail{}
	s.Normalize()
	assert.Equal(t, ServiceOther, s.ServiceKind)
	assert.Equal(t, RateFlat, s.RateUnit)
}

func TestHousingExpiresAt(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	withStart := &HousingDetail{AvailabilityStartDate: &start}
	assert.Equal(t, &start, withStart.ExpiresAt())

	withoutStart := &HousingDetail{}
	assert.Nil(t, withoutStart.ExpiresAt())

	assert.Nil(t, (&TransportationDetail{}).ExpiresAt())
	assert.Nil(t, (&MarketplaceDetail{}).ExpiresAt())
	assert.Nil(t, (&ServiceDetail{}).ExpiresAt())
}
