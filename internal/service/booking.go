package service

import (
	"context"
	"errors"
	"fmt"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/messaging"
	"farmtap-backend/internal/repository"
	"farmtap-backend/internal/utils"
)

type bookingService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	publisher     messaging.Publisher
}

// NewBookingService wires the booking workflow. Events go to publisher
// after each successful write; a nil publisher disables events.
func NewBookingService(bookingRepo repository.BookingRepository, equipmentRepo repository.EquipmentRepository, userRepo repository.UserRepository, publisher messaging.Publisher) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		publisher:     publisher,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor *domain.Principal, equipmentID int32, startDate, endDate string) (*domain.Booking, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	logger.EnterMethod("bookingService.CreateBooking", "farmerID", actor.UserID, "equipmentID", equipmentID, "startDate", startDate, "endDate", endDate)

	if _, err := s.userRepo.GetByID(ctx, actor.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = fmt.Errorf("%w: account no longer exists", ErrUnauthenticated)
		}
		logger.ExitMethodWithError("bookingService.CreateBooking", err, IsExpected(err), "farmerID", actor.UserID)
		return nil, err
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		err = fromRepo(err, "equipment", equipmentID)
		logger.ExitMethodWithError("bookingService.CreateBooking", err, IsExpected(err), "equipmentID", equipmentID)
		return nil, err
	}

	cost, err := utils.CalculateRentalCost(startDate, endDate, equipment.RentalPricePerDayCents)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEndBeforeStart):
			err = fmt.Errorf("%w: %s is before %s", ErrInvalidRange, endDate, startDate)
		case errors.Is(err, utils.ErrInvalidDate), errors.Is(err, utils.ErrPriceOverflow):
			err = fmt.Errorf("%w: %v", ErrValidation, err)
		}
		logger.ExitMethodWithError("bookingService.CreateBooking", err, IsExpected(err), "equipmentID", equipmentID)
		return nil, err
	}

	booking := &domain.Booking{
		EquipmentID:     equipment.ID,
		FarmerID:        actor.UserID,
		StartDate:       cost.StartDate.String(),
		EndDate:         cost.EndDate.String(),
		TotalPriceCents: cost.TotalCents,
		Status:          domain.BookingStatusPending,
		EquipmentName:   equipment.Name,
		OwnerID:         equipment.OwnerID,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		err = fromRepo(err, "equipment", equipmentID)
		logger.ExitMethodWithError("bookingService.CreateBooking", err, IsExpected(err), "equipmentID", equipmentID)
		return nil, err
	}

	s.publish(ctx, messaging.EventBookingCreated, booking, actor.UserID)
	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "days", cost.Days, "totalCents", cost.TotalCents)
	return booking, nil
}

func (s *bookingService) ListBookingsForUser(ctx context.Context, actor *domain.Principal) ([]domain.Booking, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return s.bookingRepo.ListForUser(ctx, actor.UserID)
}

func (s *bookingService) ListBookingsByFarmer(ctx context.Context, farmerID int32) ([]domain.Booking, error) {
	return s.bookingRepo.ListByFarmer(ctx, farmerID)
}

func (s *bookingService) ListBookingsByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	return s.bookingRepo.ListByOwner(ctx, ownerID)
}

func (s *bookingService) ListAllBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.ListAll(ctx)
}

// UpdateStatus lets the equipment owner move a booking to any status.
func (s *bookingService) UpdateStatus(ctx context.Context, actor *domain.Principal, bookingID int32, status string) (*domain.Booking, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	logger.EnterMethod("bookingService.UpdateStatus", "bookingID", bookingID, "status", status, "actorID", actor.UserID)

	newStatus, ok := domain.ParseBookingStatus(status)
	if !ok {
		err := validationError("unknown booking status %q", status)
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, true, "bookingID", bookingID)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		err = fromRepo(err, "booking", bookingID)
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, IsExpected(err), "bookingID", bookingID)
		return nil, err
	}
	if booking.OwnerID != actor.UserID {
		err := fmt.Errorf("%w: only the equipment owner can change booking %d", ErrForbidden, bookingID)
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, true, "bookingID", bookingID)
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		err = fromRepo(err, "booking", bookingID)
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, IsExpected(err), "bookingID", bookingID)
		return nil, err
	}
	booking.Status = newStatus

	s.publish(ctx, messaging.EventBookingStatusChanged, booking, actor.UserID)
	logger.ExitMethod("bookingService.UpdateStatus", "bookingID", bookingID, "status", newStatus)
	return booking, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, actor *domain.Principal, bookingID int32) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	logger.EnterMethod("bookingService.DeleteBooking", "bookingID", bookingID, "actorID", actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		err = fromRepo(err, "booking", bookingID)
		logger.ExitMethodWithError("bookingService.DeleteBooking", err, IsExpected(err), "bookingID", bookingID)
		return err
	}
	if !booking.IsParty(actor.UserID) {
		err := fmt.Errorf("%w: booking %d belongs to other users", ErrForbidden, bookingID)
		logger.ExitMethodWithError("bookingService.DeleteBooking", err, true, "bookingID", bookingID)
		return err
	}

	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		err = fromRepo(err, "booking", bookingID)
		logger.ExitMethodWithError("bookingService.DeleteBooking", err, IsExpected(err), "bookingID", bookingID)
		return err
	}

	s.publish(ctx, messaging.EventBookingDeleted, booking, actor.UserID)
	logger.ExitMethod("bookingService.DeleteBooking", "bookingID", bookingID)
	return nil
}

// publish is best effort; the booking write has already committed.
func (s *bookingService) publish(ctx context.Context, eventType messaging.EventType, booking *domain.Booking, actorID int32) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, messaging.NewBookingEvent(eventType, booking, actorID)); err != nil {
		logger.WarnContext(ctx, "Failed to publish booking event", "type", eventType, "bookingID", booking.ID, "error", err)
	}
}
