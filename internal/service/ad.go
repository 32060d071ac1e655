package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/validation"
)

var (
	ErrAdNotOwner       = errors.New("ad does not belong to this user")
	ErrCategoryMismatch = errors.New("ad category cannot be changed")
)

// MediaInput is one uploaded file reference in the order the client wants
// it displayed.
type MediaInput struct {
	StorageKey string
	Kind       model.MediaKind
	Width      *int
	Height     *int
	SizeBytes  *int64
}

// AdInput carries everything needed to create or replace an ad aggregate.
// The concrete Detail type decides the ad's category.
type AdInput struct {
	CityID          int64
	Title           string
	Description     string
	Detail          model.AdDetail
	Media           []MediaInput
	CoverStorageKey string
}

type AdService struct {
	repo     repository.AdRepository
	cityRepo repository.CityRepository
}

func NewAdService(repo repository.AdRepository, cityRepo repository.CityRepository) *AdService {
	return &AdService{repo: repo, cityRepo: cityRepo}
}

// Create validates the whole aggregate up front, normalizes the category
// detail and persists everything in one transaction. New ads always start
// PENDING regardless of what the client sends.
func (s *AdService) Create(userID string, in AdInput) (*model.Ad, error) {
	err := s.validate(&in)
	if err != nil {
		return nil, err
	}

	in.Detail.Normalize()

	now := time.Now()
	ad := &model.Ad{
		UserID:         userID,
		CityID:         in.CityID,
		Category:       in.Detail.Category(),
		Status:         model.AdStatusPending,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		ExpirationDate: in.Detail.ExpiresAt(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	media := buildMedia(in.Media)

	err = s.repo.Create(ad, in.Detail, media, in.CoverStorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ad: %w", err)
	}

	ad.Detail = in.Detail
	ad.Media = media
	ad.MediaCount = len(media)
	return ad, nil
}

// Update replaces the aggregate in place. Only the owner may edit, the
// category is fixed for the ad's lifetime, and every edit sends the ad back
// through moderation as PENDING.
func (s *AdService) Update(userID string, adID int64, in AdInput) (*model.Ad, error) {
	existing, err := s.repo.ByID(adID)
	if err != nil {
		return nil, err
	}

	if existing.UserID != userID {
		return nil, ErrAdNotOwner
	}

	err = s.validate(&in)
	if err != nil {
		return nil, err
	}

	if in.Detail.Category() != existing.Category {
		return nil, ErrCategoryMismatch
	}

	in.Detail.Normalize()

	ad := &model.Ad{
		ID:             adID,
		UserID:         existing.UserID,
		CityID:         in.CityID,
		Category:       existing.Category,
		Status:         model.AdStatusPending,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		ExpirationDate: in.Detail.ExpiresAt(),
		CreatedAt:      existing.CreatedAt,
		UpdatedAt:      time.Now(),
	}

	media := buildMedia(in.Media)

	err = s.repo.Update(ad, in.Detail, media, in.CoverStorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}

	ad.Detail = in.Detail
	ad.Media = media
	ad.MediaCount = len(media)
	return ad, nil
}

// Delete removes the owner's ad and everything under it.
func (s *AdService) Delete(userID string, adID int64) error {
	existing, err := s.repo.ByID(adID)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return ErrAdNotOwner
	}

	return s.repo.Delete(adID)
}

// ByID loads the full aggregate with the read-time status applied.
func (s *AdService) ByID(adID int64) (*model.Ad, error) {
	ad, err := s.repo.ByID(adID)
	if err != nil {
		return nil, err
	}

	ad.ApplyEffectiveStatus(time.Now())
	return ad, nil
}

// PublicList returns the browse page: only ads whose effective status is
// ONLINE, so stored-ONLINE rows past their expiration date never show up.
func (s *AdService) PublicList(filter repository.AdFilter) ([]*model.AdWithOwner, int, error) {
	now := time.Now()
	filter.Status = model.AdStatusOnline

	ads, total, err := s.repo.List(filter, now)
	if err != nil {
		return nil, 0, err
	}

	for _, ad := range ads {
		ad.ApplyEffectiveStatus(now)
	}
	return ads, total, nil
}

// MyAds returns the owner's dashboard list across all statuses.
func (s *AdService) MyAds(userID string, filter repository.AdFilter) ([]*model.AdWithOwner, int, error) {
	now := time.Now()
	filter.UserID = userID

	ads, total, err := s.repo.List(filter, now)
	if err != nil {
		return nil, 0, err
	}

	for _, ad := range ads {
		ad.ApplyEffectiveStatus(now)
	}
	return ads, total, nil
}

func (s *AdService) Cities() ([]*model.City, error) {
	return s.cityRepo.All()
}

func (s *AdService) RecordView(adID int64) error {
	return s.repo.IncrementViews(adID)
}

func (s *AdService) RecordContactClick(adID int64) error {
	return s.repo.IncrementContactClicks(adID)
}

// validate checks the whole input before any write happens, so a bad cover
// reference or detail field can never leave a half-written aggregate behind.
func (s *AdService) validate(in *AdInput) error {
	var errs validation.FieldErrors

	if fe := validation.ValidateAdTitle(in.Title); fe != nil {
		errs = append(errs, fe)
	}
	if fe := validation.ValidateAdDescription(in.Description); fe != nil {
		errs = append(errs, fe)
	}

	if in.CityID == 0 {
		errs = append(errs, &validation.FieldError{Field: "cityId", Message: "city is required"})
	} else {
		_, err := s.cityRepo.ByID(in.CityID)
		if err == repository.ErrCityNotFound {
			errs = append(errs, &validation.FieldError{Field: "cityId", Message: "unknown city"})
		} else if err != nil {
			return err
		}
	}

	if in.Detail == nil {
		errs = append(errs, &validation.FieldError{Field: "detail", Message: "category detail is required"})
		return errs
	}

	errs = append(errs, validateDetail(in.Detail)...)

	if len(in.Media) == 0 {
		errs = append(errs, &validation.FieldError{Field: "media", Message: "at least one media file is required"})
	}

	// Default the cover to the first media entry, then require it to
	// reference an entry in the list
	if in.CoverStorageKey == "" && len(in.Media) > 0 {
		in.CoverStorageKey = in.Media[0].StorageKey
	}
	coverFound := false
	for _, m := range in.Media {
		if m.StorageKey == "" {
			errs = append(errs, &validation.FieldError{Field: "media", Message: "media storage key is required"})
			break
		}
		if m.StorageKey == in.CoverStorageKey {
			coverFound = true
		}
	}
	if !coverFound && len(in.Media) > 0 {
		errs = append(errs, &validation.FieldError{Field: "coverStorageKey", Message: "cover must reference one of the media files"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDetail(detail model.AdDetail) validation.FieldErrors {
	var errs validation.FieldErrors

	price := func(field string, d decimal.NullDecimal) {
		if d.Valid && d.Decimal.IsNegative() {
			errs = append(errs, &validation.FieldError{Field: field, Message: "amount cannot be negative"})
		}
	}

	switch d := detail.(type) {
	case *model.HousingDetail:
		if !d.RentalKind.Valid() {
			errs = append(errs, &validation.FieldError{Field: "rentalKind", Message: "invalid rental kind"})
		}
		if strings.TrimSpace(d.PropertyType) == "" {
			errs = append(errs, &validation.FieldError{Field: "propertyType", Message: "property type is required"})
		}
		if d.RentalKind == model.RentalTemporary && d.AvailabilityEndDate == nil {
			errs = append(errs, &validation.FieldError{Field: "availabilityEndDate", Message: "temporary rentals need an end date"})
		}
		if d.AvailabilityStartDate != nil && d.AvailabilityEndDate != nil && d.AvailabilityEndDate.Before(*d.AvailabilityStartDate) {
			errs = append(errs, &validation.FieldError{Field: "availabilityEndDate", Message: "end date cannot precede start date"})
		}
		price("priceAmount", d.PriceAmount)
		price("depositAmount", d.DepositAmount)
		price("agencyFeeAmount", d.AgencyFeeAmount)
		price("billsMonthlyEstimate", d.BillsMonthlyEstimate)
	case *model.TransportationDetail:
		if !d.VehicleKind.Valid() {
			errs = append(errs, &validation.FieldError{Field: "vehicleKind", Message: "invalid vehicle kind"})
		}
		if d.Year != nil && (*d.Year < 1900 || *d.Year > time.Now().Year()+1) {
			errs = append(errs, &validation.FieldError{Field: "year", Message: "year is out of range"})
		}
		if d.MileageKm != nil && *d.MileageKm < 0 {
			errs = append(errs, &validation.FieldError{Field: "mileageKm", Message: "mileage cannot be negative"})
		}
		price("priceAmount", d.PriceAmount)
	case *model.MarketplaceDetail:
		if d.ItemCondition != "" && !d.ItemCondition.Valid() {
			errs = append(errs, &validation.FieldError{Field: "itemCondition", Message: "invalid item condition"})
		}
		price("priceAmount", d.PriceAmount)
	case *model.ServiceDetail:
		if d.ServiceKind != "" && !d.ServiceKind.Valid() {
			errs = append(errs, &validation.FieldError{Field: "serviceKind", Message: "invalid service kind"})
		}
		if d.RateUnit != "" && !d.RateUnit.Valid() {
			errs = append(errs, &validation.FieldError{Field: "rateUnit", Message: "invalid rate unit"})
		}
		price("priceAmount", d.PriceAmount)
	}

	return errs
}

func buildMedia(inputs []MediaInput) []*model.MediaAsset {
	media := make([]*model.MediaAsset, len(inputs))
	for i, in := range inputs {
		kind := in.Kind
		if kind == "" {
			kind = model.MediaImage
		}
		media[i] = &model.MediaAsset{
			StorageKey: in.StorageKey,
			Kind:       kind,
			Position:   i,
			Width:      in.Width,
			Height:     in.Height,
			SizeBytes:  in.SizeBytes,
		}
	}
	return media
}
