package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
	"github.com/bachecalabs/bacheca/internal/validation"
)

func pendingVerification(id int64) *model.VerificationWithOwner {
	return &model.VerificationWithOwner{
		VerificationRequest: model.VerificationRequest{
			ID:          id,
			UserID:      "user-1",
			Method:      model.MethodIDDocument,
			Status:      model.VerificationPending,
			SubmittedAt: time.Now().AddDate(0, 0, -1),
		},
		OwnerName:  "Giulia",
		OwnerEmail: "giulia@example.com",
	}
}

func TestVerificationSubmit(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	userRepo.On("ByID", "user-1").Return(&model.User{ID: "user-1"}, nil)
	repo.On("ListByUser", "user-1").Return([]*model.VerificationRequest{}, nil)

	var files []*model.VerificationFile
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { files = args.Get(1).([]*model.VerificationFile) }).
		Return(nil)

	req, err := svc.Submit("user-1", model.MethodIDDocument, []string{"uploads/user-1/doc.pdf"})

	assert.NoError(t, err)
	assert.Equal(t, model.VerificationPending, req.Status)
	assert.Len(t, files, 1)
	assert.Equal(t, model.FileRoleDocument, files[0].Role)
}

func TestVerificationSubmitSelfieFilesAreImages(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	userRepo.On("ByID", "user-1").Return(&model.User{ID: "user-1"}, nil)
	repo.On("ListByUser", "user-1").Return([]*model.VerificationRequest{}, nil)

	var files []*model.VerificationFile
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { files = args.Get(1).([]*model.VerificationFile) }).
		Return(nil)

	_, err := svc.Submit("user-1", model.MethodLandmarkSelfie, []string{"uploads/user-1/selfie.jpg"})

	assert.NoError(t, err)
	assert.Equal(t, model.FileRoleImage, files[0].Role)
}

func TestVerificationSubmitInvalidMethod(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	_, err := svc.Submit("user-1", model.VerificationMethod("PASSPORT"), []string{"uploads/user-1/doc.pdf"})

	var fieldErr *validation.FieldError
	assert.ErrorAs(t, err, &fieldErr)
	userRepo.AssertNotCalled(t, "ByID", mock.Anything)
}

func TestVerificationSubmitAlreadyVerified(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	userRepo.On("ByID", "user-1").Return(&model.User{ID: "user-1", Verified: true}, nil)

	_, err := svc.Submit("user-1", model.MethodIDDocument, []string{"uploads/user-1/doc.pdf"})

	assert.ErrorIs(t, err, ErrAlreadyVerified)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerificationSubmitBlockedByPendingRequest(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	userRepo.On("ByID", "user-1").Return(&model.User{ID: "user-1"}, nil)
	repo.On("ListByUser", "user-1").Return([]*model.VerificationRequest{
		{ID: 5, UserID: "user-1", Status: model.VerificationPending},
	}, nil)

	_, err := svc.Submit("user-1", model.MethodIDDocument, []string{"uploads/user-1/doc.pdf"})

	assert.ErrorIs(t, err, ErrRequestAlreadyPending)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerificationSubmitAllowedAfterRejection(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	userRepo.On("ByID", "user-1").Return(&model.User{ID: "user-1"}, nil)
	repo.On("ListByUser", "user-1").Return([]*model.VerificationRequest{
		{ID: 5, UserID: "user-1", Status: model.VerificationRejected},
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req, err := svc.Submit("user-1", model.MethodEnrollmentProof, []string{"uploads/user-1/enrollment.pdf"})

	assert.NoError(t, err)
	assert.Equal(t, model.VerificationPending, req.Status)
}

func TestVerificationApprove(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	mailer := new(MockVerificationMailer)
	svc := NewVerificationService(repo, userRepo, mailer)

	repo.On("ByIDWithOwner", int64(1)).Return(pendingVerification(1), nil)
	repo.On("Approve", int64(1), "mod-1", mock.Anything).Return(nil)
	mailer.On("SendVerificationApproved", "giulia@example.com", "Giulia").Return(nil)

	err := svc.Approve(1, "mod-1")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestVerificationApproveAlreadyReviewed(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	settled := pendingVerification(1)
	settled.Status = model.VerificationApproved
	repo.On("ByIDWithOwner", int64(1)).Return(settled, nil)

	err := svc.Approve(1, "mod-1")

	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	repo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerificationRejectRequiresValidCode(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	err := svc.Reject(1, "mod-1", model.VerificationRejectionCode("BAD"), "")

	assert.ErrorIs(t, err, ErrRejectionRequired)
	repo.AssertNotCalled(t, "ByIDWithOwner", mock.Anything)
}

func TestVerificationRejectStoresDecision(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	mailer := new(MockVerificationMailer)
	svc := NewVerificationService(repo, userRepo, mailer)

	repo.On("ByIDWithOwner", int64(1)).Return(pendingVerification(1), nil)

	note := "name on document does not match profile"
	repo.On("Reject", int64(1), "mod-1", model.VerificationRejectDocumentMismatch, &note, mock.Anything).Return(nil)
	mailer.On("SendVerificationRejected", "giulia@example.com", "Giulia", model.VerificationRejectDocumentMismatch, note).Return(nil)

	err := svc.Reject(1, "mod-1", model.VerificationRejectDocumentMismatch, note)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestVerificationRejectEmptyNoteStoredAsNull(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	repo.On("ByIDWithOwner", int64(1)).Return(pendingVerification(1), nil)
	repo.On("Reject", int64(1), "mod-1", model.VerificationRejectBlurryImage, (*string)(nil), mock.Anything).Return(nil)

	err := svc.Reject(1, "mod-1", model.VerificationRejectBlurryImage, "")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestVerificationBulkApprovePartialFailure(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	settled := pendingVerification(2)
	settled.Status = model.VerificationRejected
	repo.On("ByIDWithOwner", int64(1)).Return(pendingVerification(1), nil)
	repo.On("ByIDWithOwner", int64(2)).Return(settled, nil)
	repo.On("ByIDWithOwner", int64(3)).Return(nil, repository.ErrVerificationNotFound)
	repo.On("Approve", int64(1), "mod-1", mock.Anything).Return(nil)

	result := svc.BulkApprove([]int64{1, 2, 3}, "mod-1")

	assert.Equal(t, []int64{1}, result.Successful)
	assert.Equal(t, []int64{2, 3}, result.Failed)
}

func TestVerificationCurrentPrefersPending(t *testing.T) {
	repo := new(MockVerificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewVerificationService(repo, userRepo, nil)

	repo.On("ListByUser", "user-1").Return([]*model.VerificationRequest{
		{ID: 9, Status: model.VerificationRejected},
		{ID: 4, Status: model.VerificationPending},
	}, nil)

	current, err := svc.Current("user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(4), current.ID)
}
