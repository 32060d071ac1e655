package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bachecalabs/bacheca/internal/ctxkeys"
	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/service"
)

type ModerationHandler struct {
	moderationService   *service.ModerationService
	verificationService *service.VerificationService
}

func NewModerationHandler(moderationService *service.ModerationService, verificationService *service.VerificationService) *ModerationHandler {
	return &ModerationHandler{
		moderationService:   moderationService,
		verificationService: verificationService,
	}
}

func (h *ModerationHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	filter := parseAdFilter(r)

	ads, total, err := h.moderationService.List(filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newListResponse(ads, total, filter.Page, filter.Limit))
}

func (h *ModerationHandler) AdStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.moderationService.Stats()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *ModerationHandler) AdDetail(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	ad, err := h.moderationService.Detail(adID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ad)
}

func (h *ModerationHandler) ApproveAd(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.moderationService.Approve(adID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type rejectRequest struct {
	Code model.AdRejectionCode `json:"code"`
	Note string                `json:"note"`
}

func (h *ModerationHandler) RejectAd(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.moderationService.Reject(adID, req.Code, req.Note)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changeStatusRequest struct {
	Status model.AdStatus        `json:"status"`
	Code   model.AdRejectionCode `json:"code"`
	Note   string                `json:"note"`
}

func (h *ModerationHandler) ChangeAdStatus(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req changeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.moderationService.ChangeStatus(adID, req.Status, req.Code, req.Note)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ModerationHandler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.moderationService.Remove(adID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type bulkRequest struct {
	IDs  []int64               `json:"ids"`
	Code model.AdRejectionCode `json:"code"`
	Note string                `json:"note"`
}

func (h *ModerationHandler) BulkApproveAds(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids are required")
		return
	}

	respondJSON(w, http.StatusOK, h.moderationService.BulkApprove(req.IDs))
}

func (h *ModerationHandler) BulkRejectAds(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids are required")
		return
	}
	if !req.Code.Valid() {
		respondServiceError(w, service.ErrRejectionRequired)
		return
	}

	respondJSON(w, http.StatusOK, h.moderationService.BulkReject(req.IDs, req.Code, req.Note))
}

func (h *ModerationHandler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	filter := parseVerificationFilter(r)

	reqs, total, err := h.verificationService.List(filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newListResponse(reqs, total, filter.Page, filter.Limit))
}

func (h *ModerationHandler) VerificationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.verificationService.Stats()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *ModerationHandler) VerificationDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, err := h.verificationService.Detail(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, req)
}

func (h *ModerationHandler) ApproveVerification(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.verificationService.Approve(id, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type verificationRejectRequest struct {
	Code model.VerificationRejectionCode `json:"code"`
	Note string                          `json:"note"`
}

func (h *ModerationHandler) RejectVerification(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req verificationRejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.verificationService.Reject(id, user.ID, req.Code, req.Note)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type verificationBulkRequest struct {
	IDs  []int64                         `json:"ids"`
	Code model.VerificationRejectionCode `json:"code"`
	Note string                          `json:"note"`
}

func (h *ModerationHandler) BulkApproveVerifications(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req verificationBulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids are required")
		return
	}

	respondJSON(w, http.StatusOK, h.verificationService.BulkApprove(req.IDs, user.ID))
}

func (h *ModerationHandler) BulkRejectVerifications(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req verificationBulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids are required")
		return
	}
	if !req.Code.Valid() {
		respondServiceError(w, service.ErrRejectionRequired)
		return
	}

	respondJSON(w, http.StatusOK, h.verificationService.BulkReject(req.IDs, user.ID, req.Code, req.Note))
}

func parseVerificationFilter(r *http.Request) repository.VerificationFilter {
	q := r.URL.Query()

	filter := repository.VerificationFilter{
		Search:    q.Get("search"),
		Status:    model.VerificationStatus(q.Get("status")),
		Method:    model.VerificationMethod(q.Get("method")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
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
