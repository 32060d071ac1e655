package handler

import (
	"net/http"

	"github.com/bachecalabs/bacheca/internal/ctxkeys"
	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/service"
)

type VerificationHandler struct {
	verificationService *service.VerificationService
}

func NewVerificationHandler(verificationService *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

type submitVerificationRequest struct {
	Method model.VerificationMethod `json:"method"`
	Files  []string                 `json:"files"`
}

func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req submitVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.verificationService.Submit(user.ID, req.Method, req.Files)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Status returns the request the profile page shows plus the full history.
func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	history, err := h.verificationService.History(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"verified": user.Verified,
		"current":  model.CurrentRequest(history),
		"history":  history,
	})
}
