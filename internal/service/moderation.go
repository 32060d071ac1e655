package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
)

var (
	ErrStatusUnchanged   = errors.New("ad already has this status")
	ErrCannotApprove     = errors.New("ad cannot be approved from its current status")
	ErrRejectionRequired = errors.New("a valid rejection code is required")
)

// AdMailer is the slice of the email service moderation needs. Decision
// mails are best-effort: a failed send never rolls back a moderation action.
type AdMailer interface {
	SendAdApproved(email, name, title string) error
	SendAdRejected(email, name, title string, code model.AdRejectionCode, note string) error
}

type ModerationService struct {
	repo   repository.AdRepository
	mailer AdMailer
}

func NewModerationService(repo repository.AdRepository, mailer AdMailer) *ModerationService {
	return &ModerationService{repo: repo, mailer: mailer}
}

// List returns the moderation queue with owner columns joined in and the
// read-time status applied to every row.
func (s *ModerationService) List(filter repository.AdFilter) ([]*model.AdWithOwner, int, error) {
	now := time.Now()

	ads, total, err := s.repo.List(filter, now)
	if err != nil {
		return nil, 0, err
	}

	for _, ad := range ads {
		ad.ApplyEffectiveStatus(now)
	}
	return ads, total, nil
}

func (s *ModerationService) Stats() (*repository.AdStats, error) {
	return s.repo.Stats(time.Now())
}

func (s *ModerationService) Detail(adID int64) (*model.AdWithOwner, error) {
	ad, err := s.repo.ByIDWithOwner(adID)
	if err != nil {
		return nil, err
	}

	ad.ApplyEffectiveStatus(time.Now())
	return ad, nil
}

// Approve puts an ad ONLINE. Only ads whose effective status is PENDING,
// REJECTED or EXPIRED qualify; an ad that is already ONLINE has nothing to
// approve. Approving a past-expiry ad stores ONLINE but still reads EXPIRED
// until the owner updates the dates.
func (s *ModerationService) Approve(adID int64) error {
	ad, err := s.repo.ByIDWithOwner(adID)
	if err != nil {
		return err
	}

	if !model.CanApprove(ad.EffectiveStatus(time.Now())) {
		return ErrCannotApprove
	}

	err = s.repo.UpdateStatus(adID, model.AdStatusOnline, time.Now())
	if err != nil {
		return err
	}

	if s.mailer != nil {
		err = s.mailer.SendAdApproved(ad.OwnerEmail, ad.OwnerName, ad.Title)
		if err != nil {
			slog.Error("failed to send ad approved email", "adId", adID, "error", err)
		}
	}

	return nil
}

// Reject marks an ad REJECTED. Any status qualifies, including an already
// rejected ad: the code and note are not stored on the ad, so a re-reject
// with a different code is how the owner learns the new reason. They travel
// by email and the audit log only; the owner's next edit starts clean.
func (s *ModerationService) Reject(adID int64, code model.AdRejectionCode, note string) error {
	if !code.Valid() {
		return ErrRejectionRequired
	}

	ad, err := s.repo.ByIDWithOwner(adID)
	if err != nil {
		return err
	}

	err = s.repo.UpdateStatus(adID, model.AdStatusRejected, time.Now())
	if err != nil {
		return err
	}

	slog.Info("ad rejected", "adId", adID, "code", code, "note", note)

	if s.mailer != nil {
		err = s.mailer.SendAdRejected(ad.OwnerEmail, ad.OwnerName, ad.Title, code, note)
		if err != nil {
			slog.Error("failed to send ad rejected email", "adId", adID, "error", err)
		}
	}

	return nil
}

// ChangeStatus is the free-form moderator transition. ONLINE and REJECTED
// delegate to Approve and Reject with their gates (REJECTED still demands a
// code); for the remaining targets, setting the status the ad already reads
// as (stored or derived) is refused.
func (s *ModerationService) ChangeStatus(adID int64, target model.AdStatus, code model.AdRejectionCode, note string) error {
	if !target.Valid() {
		return fmt.Errorf("invalid target status %q", target)
	}

	switch target {
	case model.AdStatusOnline:
		return s.Approve(adID)
	case model.AdStatusRejected:
		return s.Reject(adID, code, note)
	}

	ad, err := s.repo.ByIDWithOwner(adID)
	if err != nil {
		return err
	}

	if ad.EffectiveStatus(time.Now()) == target {
		return ErrStatusUnchanged
	}

	return s.repo.UpdateStatus(adID, target, time.Now())
}

// BulkApprove applies Approve to each id independently. One bad id never
// aborts the rest; the caller gets the exact per-id split.
func (s *ModerationService) BulkApprove(ids []int64) *model.BulkResult {
	result := &model.BulkResult{Successful: []int64{}, Failed: []int64{}}

	for _, id := range ids {
		err := s.Approve(id)
		if err != nil {
			slog.Warn("bulk approve skipped ad", "adId", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Successful = append(result.Successful, id)
	}

	return result
}

// BulkReject applies Reject with a single shared code and note to each id
// independently.
func (s *ModerationService) BulkReject(ids []int64, code model.AdRejectionCode, note string) *model.BulkResult {
	result := &model.BulkResult{Successful: []int64{}, Failed: []int64{}}

	for _, id := range ids {
		err := s.Reject(id, code, note)
		if err != nil {
			slog.Warn("bulk reject skipped ad", "adId", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Successful = append(result.Successful, id)
	}

	return result
}

// Remove deletes an ad on a moderator's authority, bypassing the ownership
// check the owner path enforces.
func (s *ModerationService) Remove(adID int64) error {
	return s.repo.Delete(adID)
}
