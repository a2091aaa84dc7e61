package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/messaging"
	"farmtap-backend/internal/repository"
	"farmtap-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	bookings  *MockBookingRepo
	equipment *MockEquipmentRepo
	users     *MockUserRepo
	publisher *MockPublisher
	svc       service.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings:  new(MockBookingRepo),
		equipment: new(MockEquipmentRepo),
		users:     new(MockUserRepo),
		publisher: new(MockPublisher),
	}
	f.svc = service.NewBookingService(f.bookings, f.equipment, f.users, f.publisher)
	return f
}

var (
	farmer  = &domain.Principal{UserID: 1, Email: "farmer@farmtap.test", Role: domain.UserRoleFarmer}
	owner   = &domain.Principal{UserID: 2, Email: "owner@farmtap.test", Role: domain.UserRoleOwner}
	outside = &domain.Principal{UserID: 3, Email: "other@farmtap.test", Role: domain.UserRoleFarmer}
)

func tractor() *domain.Equipment {
	return &domain.Equipment{ID: 11, OwnerID: 2, Name: "Tractor", RentalPricePerDayCents: 10000, IsAvailable: true}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.equipment.On("GetByID", ctx, int32(11)).Return(tractor(), nil)
		f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Booking).ID = 21 }).
			Return(nil)
		f.publisher.On("PublishBookingEvent", ctx, mock.MatchedBy(func(ev messaging.BookingEvent) bool {
			return ev.Type == messaging.EventBookingCreated && ev.BookingID == 21 && ev.OwnerID == 2
		})).Return(nil)

		b, err := f.svc.CreateBooking(ctx, farmer, 11, "2023-05-01", "2023-05-03")
		require.NoError(t, err)
		assert.Equal(t, int32(21), b.ID)
		assert.Equal(t, int64(30000), b.TotalPriceCents)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, int32(1), b.FarmerID)
		assert.Equal(t, int32(2), b.OwnerID)
		assert.Equal(t, "Tractor", b.EquipmentName)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Single day", func(t *testing.T) {
		f := newBookingFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.equipment.On("GetByID", ctx, int32(11)).Return(tractor(), nil)
		f.bookings.On("Create", ctx, mock.Anything).Return(nil)
		f.publisher.On("PublishBookingEvent", ctx, mock.Anything).Return(nil)

		b, err := f.svc.CreateBooking(ctx, farmer, 11, "2023-05-01", "2023-05-01")
		require.NoError(t, err)
		assert.Equal(t, int64(10000), b.TotalPriceCents)
	})

	t.Run("No actor", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.svc.CreateBooking(ctx, nil, 11, "2023-05-01", "2023-05-03")
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
	})

	t.Run("Actor deleted", func(t *testing.T) {
		f := newBookingFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(nil, repository.ErrNotFound)
		_, err := f.svc.CreateBooking(ctx, farmer, 11, "2023-05-01", "2023-05-03")
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
	})

	t.Run("Unknown equipment", func(t *testing.T) {
		f := newBookingFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.equipment.On("GetByID", ctx, int32(99)).Return(nil, repository.ErrNotFound)
		_, err := f.svc.CreateBooking(ctx, farmer, 99, "2023-05-01", "2023-05-03")
		assert.ErrorIs(t, err, service.ErrNotFound)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Reversed range", func(t *testing.T) {
		f := newBookingFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.equipment.On("GetByID", ctx, int32(11)).Return(tractor(), nil)
		_, err := f.svc.CreateBooking(ctx, farmer, 11, "2023-05-03", "2023-05-01")
		assert.ErrorIs(t, err, service.ErrInvalidRange)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Malformed date", func(t *testing.T) {
		f := newBookingFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.equipment.On("GetByID", ctx, int32(11)).Return(tractor(), nil)
		_, err := f.svc.CreateBooking(ctx, farmer, 11, "01/05/2023", "2023-05-03")
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("Total would overflow", func(t *testing.T) {
		f := newBookingFixture()
		pricey := tractor()
		pricey.RentalPricePerDayCents = math.MaxInt64/2 + 1
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.equipment.On("GetByID", ctx, int32(11)).Return(pricey, nil)

		_, err := f.svc.CreateBooking(ctx, farmer, 11, "2023-05-01", "2023-05-02")
		assert.ErrorIs(t, err, service.ErrValidation)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Publish failure is ignored", func(t *testing.T) {
		f := newBookingFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.equipment.On("GetByID", ctx, int32(11)).Return(tractor(), nil)
		f.bookings.On("Create", ctx, mock.Anything).Return(nil)
		f.publisher.On("PublishBookingEvent", ctx, mock.Anything).Return(errors.New("broker unreachable"))

		b, err := f.svc.CreateBooking(ctx, farmer, 11, "2023-05-01", "2023-05-02")
		require.NoError(t, err)
		assert.Equal(t, int64(20000), b.TotalPriceCents)
	})

	t.Run("Without publisher", func(t *testing.T) {
		bookings, equipment, users := new(MockBookingRepo), new(MockEquipmentRepo), new(MockUserRepo)
		svc := service.NewBookingService(bookings, equipment, users, nil)
		users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		equipment.On("GetByID", ctx, int32(11)).Return(tractor(), nil)
		bookings.On("Create", ctx, mock.Anything).Return(nil)

		_, err := svc.CreateBooking(ctx, farmer, 11, "2023-05-01", "2023-05-02")
		assert.NoError(t, err)
	})
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID: 21, EquipmentID: 11, EquipmentName: "Tractor", FarmerID: 1, OwnerID: 2,
		StartDate: "2023-05-01", EndDate: "2023-05-03", TotalPriceCents: 30000, Status: domain.BookingStatusPending,
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner confirms", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByID", ctx, int32(21)).Return(pendingBooking(), nil)
		f.bookings.On("UpdateStatus", ctx, int32(21), domain.BookingStatusConfirmed).Return(nil)
		f.publisher.On("PublishBookingEvent", ctx, mock.MatchedBy(func(ev messaging.BookingEvent) bool {
			return ev.Type == messaging.EventBookingStatusChanged && ev.Status == domain.BookingStatusConfirmed
		})).Return(nil)

		b, err := f.svc.UpdateStatus(ctx, owner, 21, "confirmed")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
		assert.Equal(t, int64(30000), b.TotalPriceCents)
	})

	t.Run("Any transition allowed", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusCancelled
		f.bookings.On("GetByID", ctx, int32(21)).Return(b, nil)
		f.bookings.On("UpdateStatus", ctx, int32(21), domain.BookingStatusPending).Return(nil)
		f.publisher.On("PublishBookingEvent", ctx, mock.Anything).Return(nil)

		_, err := f.svc.UpdateStatus(ctx, owner, 21, "PENDING")
		assert.NoError(t, err)
	})

	t.Run("Farmer cannot change status", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByID", ctx, int32(21)).Return(pendingBooking(), nil)
		_, err := f.svc.UpdateStatus(ctx, farmer, 21, "CONFIRMED")
		assert.ErrorIs(t, err, service.ErrForbidden)
		f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown status", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.svc.UpdateStatus(ctx, owner, 21, "APPROVED")
		assert.ErrorIs(t, err, service.ErrValidation)
		f.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Missing booking", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByID", ctx, int32(77)).Return(nil, repository.ErrNotFound)
		_, err := f.svc.UpdateStatus(ctx, owner, 77, "REJECTED")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestBookingService_DeleteBooking(t *testing.T) {
	ctx := context.Background()

	for name, actor := range map[string]*domain.Principal{"Farmer": farmer, "Owner": owner} {
		t.Run(name+" deletes", func(t *testing.T) {
			f := newBookingFixture()
			f.bookings.On("GetByID", ctx, int32(21)).Return(pendingBooking(), nil)
			f.bookings.On("Delete", ctx, int32(21)).Return(nil)
			f.publisher.On("PublishBookingEvent", ctx, mock.MatchedBy(func(ev messaging.BookingEvent) bool {
				return ev.Type == messaging.EventBookingDeleted && ev.ActorID == actor.UserID
			})).Return(nil)

			assert.NoError(t, f.svc.DeleteBooking(ctx, actor, 21))
			f.bookings.AssertExpectations(t)
		})
	}

	t.Run("Stranger forbidden", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByID", ctx, int32(21)).Return(pendingBooking(), nil)
		assert.ErrorIs(t, f.svc.DeleteBooking(ctx, outside, 21), service.ErrForbidden)
		f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newBookingFixture()
		f.bookings.On("GetByID", ctx, int32(21)).Return(nil, repository.ErrNotFound)
		assert.ErrorIs(t, f.svc.DeleteBooking(ctx, farmer, 21), service.ErrNotFound)
	})
}

func TestBookingService_Lists(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	list := []domain.Booking{*pendingBooking()}

	f.bookings.On("ListForUser", ctx, int32(2)).Return(list, nil)
	f.bookings.On("ListByFarmer", ctx, int32(1)).Return(list, nil)
	f.bookings.On("ListByOwner", ctx, int32(2)).Return(list, nil)
	f.bookings.On("ListAll", ctx).Return(list, nil)

	got, err := f.svc.ListBookingsForUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.svc.ListBookingsForUser(ctx, nil)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	got, _ = f.svc.ListBookingsByFarmer(ctx, 1)
	assert.Len(t, got, 1)
	got, _ = f.svc.ListBookingsByOwner(ctx, 2)
	assert.Len(t, got, 1)
	got, _ = f.svc.ListAllBookings(ctx)
	assert.Len(t, got, 1)
}
