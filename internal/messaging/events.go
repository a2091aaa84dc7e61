package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmtap-backend/internal/domain"
)

type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventBookingDeleted       EventType = "booking.deleted"
)

// BookingEvent is the JSON message published after a booking write commits.
type BookingEvent struct {
	Type            EventType            `json:"type"`
	BookingID       int32                `json:"booking_id"`
	EquipmentID     int32                `json:"equipment_id"`
	EquipmentName   string               `json:"equipment_name"`
	FarmerID        int32                `json:"farmer_id"`
	OwnerID         int32                `json:"owner_id"`
	ActorID         int32                `json:"actor_id"`
	Status          domain.BookingStatus `json:"status"`
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	TotalPriceCents int64                `json:"total_price_cents"`
	OccurredAt      time.Time            `json:"occurred_at"`
}

func NewBookingEvent(eventType EventType, b *domain.Booking, actorID int32) BookingEvent {
	return BookingEvent{
		Type:            eventType,
		BookingID:       b.ID,
		EquipmentID:     b.EquipmentID,
		EquipmentName:   b.EquipmentName,
		FarmerID:        b.FarmerID,
		OwnerID:         b.OwnerID,
		ActorID:         actorID,
		Status:          b.Status,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      time.Now().UTC(),
	}
}

// DecodeBookingEvent parses a message body and rejects unknown event types.
func DecodeBookingEvent(body []byte) (BookingEvent, error) {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return BookingEvent{}, fmt.Errorf("failed to unmarshal booking event: %w", err)
	}
	switch ev.Type {
	case EventBookingCreated, EventBookingStatusChanged, EventBookingDeleted:
		return ev, nil
	}
	return BookingEvent{}, fmt.Errorf("unknown booking event type %q", ev.Type)
}

// Publisher delivers booking events to interested consumers.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
}

// BookingEventHandler processes one consumed event.
type BookingEventHandler func(ctx context.Context, event BookingEvent) error
