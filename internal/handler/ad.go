package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bachecalabs/bacheca/internal/ctxkeys"
	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/service"
	"github.com/bachecalabs/bacheca/internal/validation"
)

type AdHandler struct {
	adService *service.AdService
}

func NewAdHandler(adService *service.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

type mediaRequest struct {
	StorageKey string          `json:"storageKey"`
	Kind       model.MediaKind `json:"kind"`
	Width      *int            `json:"width"`
	Height     *int            `json:"height"`
	SizeBytes  *int64          `json:"sizeBytes"`
}

type adRequest struct {
	CityID          int64            `json:"cityId"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        model.AdCategory `json:"category"`
	Detail          json.RawMessage  `json:"detail"`
	Media           []mediaRequest   `json:"media"`
	CoverStorageKey string           `json:"coverStorageKey"`
}

// toInput decodes the category-discriminated detail payload into its
// concrete type. An unknown category or malformed detail is a field error.
func (req *adRequest) toInput() (service.AdInput, error) {
	var detail model.AdDetail
	switch req.Category {
	case model.CategoryHousing:
		detail = &model.HousingDetail{}
	case model.CategoryTransportation:
		detail = &model.TransportationDetail{}
	case model.CategoryMarketplace:
		detail = &model.MarketplaceDetail{}
	case model.CategoryServices:
		detail = &model.ServiceDetail{}
	default:
		return service.AdInput{}, &validation.FieldError{Field: "category", Message: "invalid category"}
	}

	if len(req.Detail) > 0 {
		err := json.Unmarshal(req.Detail, detail)
		if err != nil {
			return service.AdInput{}, &validation.FieldError{Field: "detail", Message: "malformed detail payload"}
		}
	}

	media := make([]service.MediaInput, len(req.Media))
	for i, m := range req.Media {
		media[i] = service.MediaInput{
			StorageKey: m.StorageKey,
			Kind:       m.Kind,
			Width:      m.Width,
			Height:     m.Height,
			SizeBytes:  m.SizeBytes,
		}
	}

	return service.AdInput{
		CityID:          req.CityID,
		Title:           req.Title,
		Description:     req.Description,
		Detail:          detail,
		Media:           media,
		CoverStorageKey: req.CoverStorageKey,
	}, nil
}

func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req adRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	ad, err := h.adService.Create(user.ID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ad)
}

func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req adRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	ad, err := h.adService.Update(user.ID, adID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ad)
}

func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.adService.Delete(user.ID, adID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Detail serves the public ad page. Ads that do not read ONLINE are only
// visible to their owner and to moderators; everyone else gets a 404 rather
// than a hint that the ad exists.
func (h *AdHandler) Detail(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	ad, err := h.adService.ByID(adID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	user := ctxkeys.User(r.Context())
	isOwner := user != nil && user.ID == ad.UserID
	isModerator := user != nil && user.IsModerator()

	if ad.Status != model.AdStatusOnline && !isOwner && !isModerator {
		respondError(w, http.StatusNotFound, "ad not found")
		return
	}

	if ad.Status == model.AdStatusOnline && !isOwner {
		err = h.adService.RecordView(adID)
		if err != nil {
			slog.Warn("failed to record ad view", "adId", adID, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, ad)
}

func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseAdFilter(r)

	ads, total, err := h.adService.PublicList(filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newListResponse(ads, total, filter.Page, filter.Limit))
}

func (h *AdHandler) MyAds(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	filter := parseAdFilter(r)

	ads, total, err := h.adService.MyAds(user.ID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newListResponse(ads, total, filter.Page, filter.Limit))
}

func (h *AdHandler) ContactClick(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.adService.RecordContactClick(adID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdHandler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.adService.Cities()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cities)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func parseAdFilter(r *http.Request) repository.AdFilter {
	q := r.URL.Query()

	filter := repository.AdFilter{
		Search:    q.Get("search"),
		Status:    model.AdStatus(q.Get("status")),
		Category:  model.AdCategory(q.Get("category")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if cityID, err := strconv.ParseInt(q.Get("cityId"), 10, 64); err == nil {
		filter.CityID = cityID
	}
	if from, err := time.Parse("2006-01-02", q.Get("dateFrom")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("dateTo")); err == nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	return filter
}
