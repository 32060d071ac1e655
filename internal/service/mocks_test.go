package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bachecalabs/bacheca/internal/model"
	"github.com/bachecalabs/bacheca/internal/repository"
)

type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Create(ad *model.Ad, detail model.AdDetail, media []*model.MediaAsset, coverKey string) error {
	args := m.Called(ad, detail, media, coverKey)
	return args.Error(0)
}

func (m *MockAdRepository) Update(ad *model.Ad, detail model.AdDetail, media []*model.MediaAsset, coverKey string) error {
	args := m.Called(ad, detail, media, coverKey)
	return args.Error(0)
}

func (m *MockAdRepository) ByID(id int64) (*model.Ad, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *MockAdRepository) ByIDWithOwner(id int64) (*model.AdWithOwner, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdWithOwner), args.Error(1)
}

func (m *MockAdRepository) List(filter repository.AdFilter, now time.Time) ([]*model.AdWithOwner, int, error) {
	args := m.Called(filter, now)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.AdWithOwner), args.Int(1), args.Error(2)
}

func (m *MockAdRepository) Stats(now time.Time) (*repository.AdStats, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AdStats), args.Error(1)
}

func (m *MockAdRepository) UpdateStatus(id int64, status model.AdStatus, now time.Time) error {
	args := m.Called(id, status, now)
	return args.Error(0)
}

func (m *MockAdRepository) IncrementViews(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAdRepository) IncrementContactClicks(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAdRepository) Delete(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) ByID(id int64) (*model.City, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityRepository) All() ([]*model.City, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.City), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) ByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(req *model.VerificationRequest, files []*model.VerificationFile) error {
	args := m.Called(req, files)
	return args.Error(0)
}

func (m *MockVerificationRepository) ByID(id int64) (*model.VerificationRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) ByIDWithOwner(id int64) (*model.VerificationWithOwner, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationWithOwner), args.Error(1)
}

func (m *MockVerificationRepository) ListByUser(userID string) ([]*model.VerificationRequest, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) List(filter repository.VerificationFilter) ([]*model.VerificationWithOwner, int, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.VerificationWithOwner), args.Int(1), args.Error(2)
}

func (m *MockVerificationRepository) Stats(now time.Time) (*repository.VerificationStats, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VerificationStats), args.Error(1)
}

func (m *MockVerificationRepository) Approve(id int64, reviewerID string, now time.Time) error {
	args := m.Called(id, reviewerID, now)
	return args.Error(0)
}

func (m *MockVerificationRepository) Reject(id int64, reviewerID string, code model.VerificationRejectionCode, note *string, now time.Time) error {
	args := m.Called(id, reviewerID, code, note, now)
	return args.Error(0)
}

type MockAdMailer struct {
	mock.Mock
}

func (m *MockAdMailer) SendAdApproved(email, name, title string) error {
	args := m.Called(email, name, title)
	return args.Error(0)
}

func (m *MockAdMailer) SendAdRejected(email, name, title string, code model.AdRejectionCode, note string) error {
	args := m.Called(email, name, title, code, note)
	return args.Error(0)
}

type MockVerificationMailer struct {
	mock.Mock
}

func (m *MockVerificationMailer) SendVerificationApproved(email, name string) error {
	args := m.Called(email, name)
	return args.Error(0)
}

func (m *MockVerificationMailer) SendVerificationRejected(email, name string, code model.VerificationRejectionCode, note string) error {
	args := m.Called(email, name, code, note)
	return args.Error(0)
}
