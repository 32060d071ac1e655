package handler

import (
	"net/http"
	"regexp"

	"github.com/bachecalabs/bacheca/internal/service"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) LegalPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("page")
	if !slugPattern.MatchString(slug) {
		respondError(w, http.StatusNotFound, "page not found")
		return
	}

	page, err := h.contentService.LegalPage(slug)
	if err != nil {
		respondError(w, http.StatusNotFound, "page not found")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (h *ContentHandler) Announcements(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.Announcements()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}
