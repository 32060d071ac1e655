package service

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/storage"
	"github.com/bachecalabs/bacheca/internal/validation"
)

// MediaService stores uploaded files and hands back opaque storage keys.
// Keys only become part of an ad or verification request when the owning
// aggregate is written; orphaned uploads are a storage concern, not a data
// integrity one.
type MediaService struct {
	storage storage.Storage
}

func NewMediaService(st storage.Storage) *MediaService {
	return &MediaService{storage: st}
}

type UploadResult struct {
	StorageKey string          `json:"storageKey"`
	Kind       model.MediaKind `json:"kind"`
	SizeBytes  int64           `json:"sizeBytes"`
}

// Upload validates the file against the image and document constraints and
// stores it under a generated key the client echoes back later.
func (s *MediaService) Upload(userID string, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	err := validation.ValidateFile(header, validation.ImageConstraints, validation.DocumentConstraints)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	kind := model.MediaImage
	if ext == ".pdf" {
		kind = model.MediaDocument
	}

	key := filepath.Join("uploads", userID, fmt.Sprintf("%s%s", uuid.New().String(), ext))

	err = s.storage.Save(key, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &UploadResult{
		StorageKey: key,
		Kind:       kind,
		SizeBytes:  header.Size,
	}, nil
}

// URL resolves a storage key to something a browser can fetch. Ad media is
// public facing, so the long-expiry presigned URL is used when the backing
// store supports it.
func (s *MediaService) URL(storageKey string) string {
	s3Storage, ok := s.storage.(*storage.S3Storage)
	if ok {
		return s3Storage.PublicURL(storageKey)
	}
	return s.storage.URL(storageKey)
}

// PrivateURL resolves a verification file key with a short expiry, for
// moderator review only.
func (s *MediaService) PrivateURL(storageKey string) (string, error) {
	s3Storage, ok := s.storage.(*storage.S3Storage)
	if ok {
		return s3Storage.PresignedURL(storageKey, s3Storage.GetPresignExpiryPrivate())
	}
	return s.storage.URL(storageKey), nil
}

// Delete removes an object, best effort.
func (s *MediaService) Delete(storageKey string) error {
	return s.storage.Delete(storageKey)
}
