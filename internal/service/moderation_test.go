package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
)

func moderationAd(id int64, status model.AdStatus) *model.AdWithOwner {
	return &model.AdWithOwner{
		Ad: model.Ad{
			ID:     id,
			UserID: "owner-1",
			Status: status,
			Title:  "Bici da corsa",
		},
		OwnerName:  "Marco",
		OwnerEmail: "marco@example.com",
	}
}

func TestModerationApprovePendingAd(t *testing.T) {
	repo := new(MockAdRepository)
	mailer := new(MockAdMailer)
	svc := NewModerationService(repo, mailer)

	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusPending), nil)
	repo.On("UpdateStatus", int64(1), model.AdStatusOnline, mock.Anything).Return(nil)
	mailer.On("SendAdApproved", "marco@example.com", "Marco", "Bici da corsa").Return(nil)

	err := svc.Approve(1)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestModerationApproveOnlineAdRefused(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusOnline), nil)

	err := svc.Approve(1)

	assert.ErrorIs(t, err, ErrCannotApprove)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationApproveExpiredAd(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	// Stored ONLINE but past expiry reads EXPIRED, which is approvable again.
	past := time.Now().AddDate(0, 0, -1)
	ad := moderationAd(1, model.AdStatusOnline)
	ad.ExpirationDate = &past
	repo.On("ByIDWithOwner", int64(1)).Return(ad, nil)
	repo.On("UpdateStatus", int64(1), model.AdStatusOnline, mock.Anything).Return(nil)

	err := svc.Approve(1)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestModerationApproveMailFailureIsNotFatal(t *testing.T) {
	repo := new(MockAdRepository)
	mailer := new(MockAdMailer)
	svc := NewModerationService(repo, mailer)

	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusPending), nil)
	repo.On("UpdateStatus", int64(1), model.AdStatusOnline, mock.Anything).Return(nil)
	mailer.On("SendAdApproved", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := svc.Approve(1)

	assert.NoError(t, err)
}

func TestModerationRejectRequiresValidCode(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	err := svc.Reject(1, model.AdRejectionCode("NOT_A_CODE"), "")

	assert.ErrorIs(t, err, ErrRejectionRequired)
	repo.AssertNotCalled(t, "ByIDWithOwner", mock.Anything)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationRejectAgainWithNewCode(t *testing.T) {
	repo := new(MockAdRepository)
	mailer := new(MockAdMailer)
	svc := NewModerationService(repo, mailer)

	// The rejection reason is not stored, so re-rejecting with a different
	// code is how the owner learns the new reason.
	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusRejected), nil)
	repo.On("UpdateStatus", int64(1), model.AdStatusRejected, mock.Anything).Return(nil)
	mailer.On("SendAdRejected", "marco@example.com", "Marco", "Bici da corsa", model.AdRejectSuspectedScam, "").Return(nil)

	err := svc.Reject(1, model.AdRejectSuspectedScam, "")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestModerationRejectSendsCodeAndNote(t *testing.T) {
	repo := new(MockAdRepository)
	mailer := new(MockAdMailer)
	svc := NewModerationService(repo, mailer)

	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusPending), nil)
	repo.On("UpdateStatus", int64(1), model.AdStatusRejected, mock.Anything).Return(nil)
	mailer.On("SendAdRejected", "marco@example.com", "Marco", "Bici da corsa", model.AdRejectDuplicate, "identical to ad 42").Return(nil)

	err := svc.Reject(1, model.AdRejectDuplicate, "identical to ad 42")

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestModerationChangeStatusDelegatesToApprove(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusPending), nil)
	repo.On("UpdateStatus", int64(1), model.AdStatusOnline, mock.Anything).Return(nil)

	err := svc.ChangeStatus(1, model.AdStatusOnline, "", "")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestModerationChangeStatusRejectedStillNeedsCode(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	err := svc.ChangeStatus(1, model.AdStatusRejected, "", "")

	assert.ErrorIs(t, err, ErrRejectionRequired)
}

func TestModerationChangeStatusInvalidTarget(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	err := svc.ChangeStatus(1, model.AdStatus("ARCHIVED"), "", "")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "ByIDWithOwner", mock.Anything)
}

func TestModerationChangeStatusSameEffectiveStatus(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	// Stored ONLINE past expiry already reads EXPIRED; setting EXPIRED again
	// is a no-op transition.
	past := time.Now().AddDate(0, 0, -1)
	ad := moderationAd(1, model.AdStatusOnline)
	ad.ExpirationDate = &past
	repo.On("ByIDWithOwner", int64(1)).Return(ad, nil)

	err := svc.ChangeStatus(1, model.AdStatusExpired, "", "")

	assert.ErrorIs(t, err, ErrStatusUnchanged)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationBulkApprovePartialFailure(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusPending), nil)
	repo.On("ByIDWithOwner", int64(2)).Return(nil, repository.ErrAdNotFound)
	repo.On("ByIDWithOwner", int64(3)).Return(moderationAd(3, model.AdStatusOnline), nil)
	repo.On("UpdateStatus", int64(1), model.AdStatusOnline, mock.Anything).Return(nil)

	result := svc.BulkApprove([]int64{1, 2, 3})

	assert.Equal(t, []int64{1}, result.Successful)
	assert.Equal(t, []int64{2, 3}, result.Failed)
}

func TestModerationBulkRejectSharedCode(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	repo.On("ByIDWithOwner", int64(1)).Return(moderationAd(1, model.AdStatusPending), nil)
	repo.On("ByIDWithOwner", int64(2)).Return(nil, repository.ErrAdNotFound)
	repo.On("UpdateStatus", int64(1), model.AdStatusRejected, mock.Anything).Return(nil)

	result := svc.BulkReject([]int64{1, 2}, model.AdRejectSuspectedScam, "")

	assert.Equal(t, []int64{1}, result.Successful)
	assert.Equal(t, []int64{2}, result.Failed)
}

func TestModerationListAppliesEffectiveStatus(t *testing.T) {
	repo := new(MockAdRepository)
	svc := NewModerationService(repo, nil)

	past := time.Now().AddDate(0, 0, -1)
	expired := moderationAd(1, model.AdStatusOnline)
	expired.ExpirationDate = &past
	repo.On("List", mock.Anything, mock.Anything).Return([]*model.AdWithOwner{expired}, 1, nil)

	ads, total, err := svc.List(repository.AdFilter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, model.AdStatusExpired, ads[0].Status)
}
