package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/service"
	"github.com/bachecalabs/bacheca/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []*validation.FieldError `json:"fields,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything not
// recognized is a 500 and gets logged here so handlers don't have to.
func respondServiceError(w http.ResponseWriter, err error) {
	var fieldErrs validation.FieldErrors
	if errors.As(err, &fieldErrs) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fieldErrs})
		return
	}
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: []*validation.FieldError{fieldErr}})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAdNotOwner):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrAdNotFound),
		errors.Is(err, repository.ErrCityNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrVerificationNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCategoryMismatch),
		errors.Is(err, service.ErrCannotApprove),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrRequestAlreadyPending),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrStatusUnchanged):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRejectionRequired),
		errors.Is(err, service.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// listResponse is the shared pagination envelope.
type listResponse struct {
	Items      any `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func newListResponse(items any, total, page, limit int) listResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return listResponse{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
