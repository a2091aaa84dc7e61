package service

import (
	"context"
	"io"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/messaging"
)

// RegisterInput is the account data accepted at registration and by the
// administrative user create.
type RegisterInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	PhoneNumber      string `json:"phone_number"`
	IDDocumentNumber string `json:"id_document_number"`
	VillageName      string `json:"village_name"`
	District         string `json:"district"`
	State            string `json:"state"`
	PostalCode       string `json:"postal_code"`
	ProfileImageURL  string `json:"profile_image_url"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

type UserService interface {
	GetUser(ctx context.Context, id int32) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SaveUser(ctx context.Context, input RegisterInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int32) error
	GetProfile(ctx context.Context, actor *domain.Principal) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.Principal, patch domain.ProfileUpdate) (*domain.User, error)
}

type EquipmentService interface {
	GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error)
	ListAvailable(ctx context.Context) ([]domain.Equipment, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error)
	AddEquipment(ctx context.Context, actor *domain.Principal, equipment *domain.Equipment) (*domain.Equipment, error)
	RemoveEquipment(ctx context.Context, actor *domain.Principal, id int32) error
	SetAvailability(ctx context.Context, actor *domain.Principal, id int32, available bool) (*domain.Equipment, error)
	UploadImage(ctx context.Context, actor *domain.Principal, id int32, filename, contentType string, body io.Reader) (*domain.Equipment, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor *domain.Principal, equipmentID int32, startDate, endDate string) (*domain.Booking, error)
	ListBookingsForUser(ctx context.Context, actor *domain.Principal) ([]domain.Booking, error)
	ListBookingsByFarmer(ctx context.Context, farmerID int32) ([]domain.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error)
	ListAllBookings(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, actor *domain.Principal, bookingID int32, status string) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, actor *domain.Principal, bookingID int32) error
}

type EmailService interface {
	SendEmail(ctx context.Context, to, toName, subject, plainText, htmlContent string) error
}

// NotificationService turns booking events into emails.
type NotificationService interface {
	HandleBookingEvent(ctx context.Context, event messaging.BookingEvent) error
}
