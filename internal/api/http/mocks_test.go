package http

import (
	"context"
	"io"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, actor *domain.Principal, equipmentID int32, startDate, endDate string) (*domain.Booking, error) {
	args := m.Called(ctx, actor, equipmentID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookingsForUser(ctx context.Context, actor *domain.Principal) ([]domain.Booking, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookingsByFarmer(ctx context.Context, farmerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, farmerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookingsByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListAllBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) UpdateStatus(ctx context.Context, actor *domain.Principal, bookingID int32, status string) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) DeleteBooking(ctx context.Context, actor *domain.Principal, bookingID int32) error {
	args := m.Called(ctx, actor, bookingID)
	return args.Error(0)
}

// MockEquipmentService
type MockEquipmentService struct {
	mock.Mock
}

func (m *MockEquipmentService) GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentService) ListAvailable(ctx context.Context) ([]domain.Equipment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentService) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *MockEquipmentService) AddEquipment(ctx context.Context, actor *domain.Principal, e *domain.Equipment) (*domain.Equipment, error) {
	args := m.Called(ctx, actor, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentService) RemoveEquipment(ctx context.Context, actor *domain.Principal, id int32) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
func (m *MockEquipmentService) SetAvailability(ctx context.Context, actor *domain.Principal, id int32, available bool) (*domain.Equipment, error) {
	args := m.Called(ctx, actor, id, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentService) UploadImage(ctx context.Context, actor *domain.Principal, id int32, filename, contentType string, body io.Reader) (*domain.Equipment, error) {
	args := m.Called(ctx, actor, id, filename, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserService) SaveUser(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) DeleteUser(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserService) GetProfile(ctx context.Context, actor *domain.Principal) (*domain.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateProfile(ctx context.Context, actor *domain.Principal, patch domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, actor, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
