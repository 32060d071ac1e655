package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/validation"
)

var (
	ErrRequestAlreadyPending = errors.New("a verification request is already pending")
	ErrAlreadyVerified       = errors.New("user is already verified")
	ErrAlreadyReviewed       = errors.New("verification request has already been reviewed")
)

// VerificationMailer is the slice of the email service verification needs.
type VerificationMailer interface {
	SendVerificationApproved(email, name string) error
	SendVerificationRejected(email, name string, code model.VerificationRejectionCode, note string) error
}

type VerificationService struct {
	repo     repository.VerificationRepository
	userRepo repository.UserRepository
	mailer   VerificationMailer
}

func NewVerificationService(repo repository.VerificationRepository, userRepo repository.UserRepository, mailer VerificationMailer) *VerificationService {
	return &VerificationService{repo: repo, userRepo: userRepo, mailer: mailer}
}

// Submit files a new verification request. The gate is strict: verified
// users cannot resubmit, and a user with a PENDING request must wait for its
// decision. A REJECTED decision reopens the gate.
func (s *VerificationService) Submit(userID string, method model.VerificationMethod, storageKeys []string) (*model.VerificationRequest, error) {
	if !method.Valid() {
		return nil, &validation.FieldError{Field: "method", Message: "invalid verification method"}
	}
	if len(storageKeys) == 0 {
		return nil, &validation.FieldError{Field: "files", Message: "at least one file is required"}
	}

	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Verified {
		return nil, ErrAlreadyVerified
	}

	history, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, prev := range history {
		if prev.Status == model.VerificationPending {
			return nil, ErrRequestAlreadyPending
		}
	}

	req := &model.VerificationRequest{
		UserID:      userID,
		Method:      method,
		Status:      model.VerificationPending,
		SubmittedAt: time.Now(),
	}

	files := make([]*model.VerificationFile, len(storageKeys))
	for i, key := range storageKeys {
		files[i] = &model.VerificationFile{
			StorageKey: key,
			Role:       method.FileRole(),
		}
	}

	err = s.repo.Create(req, files)
	if err != nil {
		return nil, err
	}

	return req, nil
}

// History returns the user's requests newest first.
func (s *VerificationService) History(userID string) ([]*model.VerificationRequest, error) {
	return s.repo.ListByUser(userID)
}

// Current returns the request the user's profile should display, or nil
// when the user never submitted one.
func (s *VerificationService) Current(userID string) (*model.VerificationRequest, error) {
	history, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return model.CurrentRequest(history), nil
}

func (s *VerificationService) List(filter repository.VerificationFilter) ([]*model.VerificationWithOwner, int, error) {
	return s.repo.List(filter)
}

func (s *VerificationService) Stats() (*repository.VerificationStats, error) {
	return s.repo.Stats(time.Now())
}

func (s *VerificationService) Detail(id int64) (*model.VerificationWithOwner, error) {
	return s.repo.ByIDWithOwner(id)
}

// Approve settles a PENDING request and flips the owner's verified flag in
// the same transaction. Reviewed requests are immutable.
func (s *VerificationService) Approve(id int64, reviewerID string) error {
	req, err := s.repo.ByIDWithOwner(id)
	if err != nil {
		return err
	}
	if req.Status != model.VerificationPending {
		return ErrAlreadyReviewed
	}

	err = s.repo.Approve(id, reviewerID, time.Now())
	if err != nil {
		return err
	}

	if s.mailer != nil {
		err = s.mailer.SendVerificationApproved(req.OwnerEmail, req.OwnerName)
		if err != nil {
			slog.Error("failed to send verification approved email", "requestId", id, "error", err)
		}
	}

	return nil
}

// Reject settles a PENDING request with a code and optional note. The
// decision is stored on the request so the user sees why, and the user may
// submit a fresh request afterwards.
func (s *VerificationService) Reject(id int64, reviewerID string, code model.VerificationRejectionCode, note string) error {
	if !code.Valid() {
		return ErrRejectionRequired
	}

	req, err := s.repo.ByIDWithOwner(id)
	if err != nil {
		return err
	}
	if req.Status != model.VerificationPending {
		return ErrAlreadyReviewed
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	err = s.repo.Reject(id, reviewerID, code, notePtr, time.Now())
	if err != nil {
		return err
	}

	if s.mailer != nil {
		err = s.mailer.SendVerificationRejected(req.OwnerEmail, req.OwnerName, code, note)
		if err != nil {
			slog.Error("failed to send verification rejected email", "requestId", id, "error", err)
		}
	}

	return nil
}

// BulkApprove applies Approve per id; failures never abort the batch.
func (s *VerificationService) BulkApprove(ids []int64, reviewerID string) *model.BulkResult {
	result := &model.BulkResult{Successful: []int64{}, Failed: []int64{}}

	for _, id := range ids {
		err := s.Approve(id, reviewerID)
		if err != nil {
			slog.Warn("bulk approve skipped verification request", "requestId", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Successful = append(result.Successful, id)
	}

	return result
}

// BulkReject applies Reject with a shared code and note per id.
func (s *VerificationService) BulkReject(ids []int64, reviewerID string, code model.VerificationRejectionCode, note string) *model.BulkResult {
	result := &model.BulkResult{Successful: []int64{}, Failed: []int64{}}

	for _, id := range ids {
		err := s.Reject(id, reviewerID, code, note)
		if err != nil {
			slog.Warn("bulk reject skipped verification request", "requestId", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Successful = append(result.Successful, id)
	}

	return result
}
