package handler

import (
	"net/http"

	"github.com/bachecalabs/bacheca/internal/ctxkeys"
	"github.com/bachecalabs/bacheca/internal/service"
)

// maxUploadMemory caps the multipart form buffer; larger files spill to disk.
const maxUploadMemory = 10 << 20

type UploadHandler struct {
	mediaService *service.MediaService
}

func NewUploadHandler(mediaService *service.MediaService) *UploadHandler {
	return &UploadHandler{mediaService: mediaService}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := h.mediaService.Upload(user.ID, file, header)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
