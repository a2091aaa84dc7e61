package service_test

import (
	"context"
	"io"
	"time"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/messaging"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) ListAvailable(ctx context.Context) ([]domain.Equipment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) SetAvailability(ctx context.Context, id int32, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}
func (m *MockEquipmentRepo) SetImageKey(ctx context.Context, id int32, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}
func (m *MockEquipmentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListForUser(ctx context.Context, userID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByFarmer(ctx context.Context, farmerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, farmerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingEvent(ctx context.Context, event messaging.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	args := m.Called(ctx, to, toName, subject, plainText, htmlContent)
	return args.Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}
func (m *MockStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
