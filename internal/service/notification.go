package service

import (
	"context"
	"fmt"
	"html"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/messaging"
	"farmtap-backend/internal/repository"
)

type notificationService struct {
	userRepo repository.UserRepository
	emailSvc EmailService
}

func NewNotificationService(userRepo repository.UserRepository, emailSvc EmailService) NotificationService {
	return &notificationService{userRepo: userRepo, emailSvc: emailSvc}
}

// HandleBookingEvent emails the party that did not cause the event:
// the owner on creation, the farmer on a status change and the other
// party on deletion.
func (s *notificationService) HandleBookingEvent(ctx context.Context, event messaging.BookingEvent) error {
	logger.EnterMethod("notificationService.HandleBookingEvent", "type", event.Type, "bookingID", event.BookingID)

	var recipientID int32
	switch event.Type {
	case messaging.EventBookingCreated:
		recipientID = event.OwnerID
	case messaging.EventBookingStatusChanged:
		recipientID = event.FarmerID
	case messaging.EventBookingDeleted:
		recipientID = event.FarmerID
		if event.ActorID == event.FarmerID {
			recipientID = event.OwnerID
		}
	default:
		err := fmt.Errorf("unsupported booking event %q", event.Type)
		logger.ExitMethodWithError("notificationService.HandleBookingEvent", err, false)
		return err
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		err = fromRepo(err, "user", recipientID)
		logger.ExitMethodWithError("notificationService.HandleBookingEvent", err, IsExpected(err), "recipientID", recipientID)
		return err
	}

	subject, text := bookingEmail(event, recipient)
	htmlContent := "<p>" + html.EscapeString(text) + "</p>"
	if err := s.emailSvc.SendEmail(ctx, recipient.Email, recipient.Name, subject, text, htmlContent); err != nil {
		logger.ExitMethodWithError("notificationService.HandleBookingEvent", err, false, "recipientID", recipientID)
		return err
	}

	logger.ExitMethod("notificationService.HandleBookingEvent", "recipientID", recipientID)
	return nil
}

func bookingEmail(event messaging.BookingEvent, recipient *domain.User) (string, string) {
	period := fmt.Sprintf("%s to %s", event.StartDate, event.EndDate)
	switch event.Type {
	case messaging.EventBookingCreated:
		return fmt.Sprintf("New booking request: %s", event.EquipmentName),
			fmt.Sprintf("Hello %s, your %s has been requested for %s. Total: %s.",
				recipient.Name, event.EquipmentName, period, formatCents(event.TotalPriceCents))
	case messaging.EventBookingStatusChanged:
		return fmt.Sprintf("Booking %s: %s", event.Status, event.EquipmentName),
			fmt.Sprintf("Hello %s, your booking of %s for %s is now %s.",
				recipient.Name, event.EquipmentName, period, event.Status)
	default:
		return fmt.Sprintf("Booking removed: %s", event.EquipmentName),
			fmt.Sprintf("Hello %s, the booking of %s for %s has been deleted.",
				recipient.Name, event.EquipmentName, period)
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
