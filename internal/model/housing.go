package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalKind string

const (
	RentalTemporary RentalKind = "TEMPORARY"
	RentalPermanent RentalKind = "PERMANENT"
)

func (k RentalKind) Valid() bool {
	return k == RentalTemporary || k == RentalPermanent
}

type ContractType string

const (
	ContractNone       ContractType = "NONE"
	ContractTransitory ContractType = "TRANSITORY"
	ContractStandard   ContractType = "STANDARD"
	ContractStudent    ContractType = "STUDENT"
)

type BillsPolicy string

const (
	BillsIncluded BillsPolicy = "INCLUDED"
	BillsExcluded BillsPolicy = "EXCLUDED"
	BillsPartial  BillsPolicy = "PARTIAL"
)

type HousingDetail struct {
	AdID                  int64               `db:"ad_id" json:"-"`
	RentalKind            RentalKind          `db:"rental_kind" json:"rentalKind"`
	PropertyType          string              `db:"property_type" json:"propertyType"`
	PriceAmount           decimal.NullDecimal `db:"price_amount" json:"priceAmount"`
	PriceNegotiable       bool                `db:"price_negotiable" json:"priceNegotiable"`
	AvailabilityStartDate *time.Time          `db:"availability_start_date" json:"availabilityStartDate"`
	AvailabilityEndDate   *time.Time          `db:"availability_end_date" json:"availabilityEndDate"`
	ContractType          ContractType        `db:"contract_type" json:"contractType"`
	ResidenzaAvailable    bool                `db:"residenza_available" json:"residenzaAvailable"`
	DepositAmount         decimal.NullDecimal `db:"deposit_amount" json:"depositAmount"`
	AgencyFeeAmount       decimal.NullDecimal `db:"agency_fee_amount" json:"agencyFeeAmount"`
	BillsPolicy           BillsPolicy         `db:"bills_policy" json:"billsPolicy"`
	BillsMonthlyEstimate  decimal.NullDecimal `db:"bills_monthly_estimate" json:"billsMonthlyEstimate"`
	BillsNotes            *string             `db:"bills_notes" json:"billsNotes"`
	RoomsCount            *int                `db:"rooms_count" json:"roomsCount"`
	BathroomsCount        *int                `db:"bathrooms_count" json:"bathroomsCount"`
	SizeSqm               *int                `db:"size_sqm" json:"sizeSqm"`
	Furnished             bool                `db:"furnished" json:"furnished"`
	Address               *string             `db:"address" json:"address"`
}

func (*HousingDetail) Category() AdCategory { return CategoryHousing }

// Normalize neutralizes the fields that do not apply to the selected rental
// kind, so stale values from a client that switched kind mid-edit never
// reach storage. Temporary rentals have no contract and bills are included;
// permanent rentals have no end date and bills default to excluded.
func (d *HousingDetail) Normalize() {
	switch d.RentalKind {
	case RentalTemporary:
		d.ContractType = ContractNone
		d.ResidenzaAvailable = false
		d.DepositAmount = decimal.NullDecimal{}
		d.AgencyFeeAmount = decimal.NullDecimal{}
		d.BillsPolicy = BillsIncluded
		d.BillsMonthlyEstimate = decimal.NullDecimal{}
		d.BillsNotes = nil
	case RentalPermanent:
		d.AvailabilityEndDate = nil
		if d.ContractType == "" {
			d.ContractType = ContractStandard
		}
		if d.BillsPolicy == "" {
			d.BillsPolicy = BillsExcluded
		}
	}

	if d.PriceNegotiable {
		d.PriceAmount = decimal.NullDecimal{}
	}
}

// ExpiresAt derives the ad's expiration from the availability start date:
// a listing whose availability has already begun goes stale.
func (d *HousingDetail) ExpiresAt() *time.Time {
	return d.AvailabilityStartDate
}
