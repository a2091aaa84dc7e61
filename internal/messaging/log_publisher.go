package messaging

import (
	"context"

	"farmtap-backend/internal/logger"
)

// LogPublisher stands in for the broker when none is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	logger.InfoContext(ctx, "Booking event",
		"type", event.Type,
		"booking_id", event.BookingID,
		"equipment_id", event.EquipmentID,
		"farmer_id", event.FarmerID,
		"owner_id", event.OwnerID,
		"status", event.Status,
	)
	return nil
}
