package repository

import (
	"context"
	"errors"

	"farmtap-backend/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int32) error
}

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) error
	GetByID(ctx context.Context, id int32) (*domain.Equipment, error)
	ListAvailable(ctx context.Context) ([]domain.Equipment, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error)
	SetAvailability(ctx context.Context, id int32, available bool) error
	SetImageKey(ctx context.Context, id int32, key string) error
	Delete(ctx context.Context, id int32) error
}

// BookingRepository reads return bookings joined with their equipment so
// that EquipmentName and OwnerID are populated. Lists are ordered newest first.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int32) ([]domain.Booking, error)
	ListByFarmer(ctx context.Context, farmerID int32) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error
	Delete(ctx context.Context, id int32) error
}
