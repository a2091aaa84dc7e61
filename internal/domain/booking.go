package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// ParseBookingStatus accepts the status name in any letter case.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled:
		return st, true
	}
	return "", false
}

type Booking struct {
	ID          int32  `json:"id" db:"id"`
	EquipmentID int32  `json:"equipment_id" db:"equipment_id"`
	FarmerID    int32  `json:"farmer_id" db:"farmer_id"`
	StartDate   string `json:"start_date" db:"start_date"`
	EndDate     string `json:"end_date" db:"end_date"`
	// Price snapshot taken when the booking is created.
	TotalPriceCents int64         `json:"total_price_cents" db:"total_price_cents"`
	Status          BookingStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`

	// Joined from equipment on read.
	EquipmentName string `json:"equipment_name" db:"equipment_name"`
	OwnerID       int32  `json:"owner_id" db:"owner_id"`
}

// IsParty reports whether the user is the farmer or the equipment owner.
func (b *Booking) IsParty(userID int32) bool {
	return b.FarmerID == userID || b.OwnerID == userID
}
