package domain

import "time"

type Equipment struct {
	ID                     int32     `json:"id" db:"id"`
	OwnerID                int32     `json:"owner_id" db:"owner_id"`
	OwnerName              string    `json:"owner_name" db:"owner_name"`
	Name                   string    `json:"name" db:"name"`
	Type                   string    `json:"type" db:"type"`
	Description            string    `json:"description" db:"description"`
	RentalPricePerDayCents int64     `json:"rental_price_per_day_cents" db:"rental_price_per_day_cents"`
	IsAvailable            bool      `json:"is_available" db:"is_available"`
	Location               string    `json:"location" db:"location"`
	ImageURL               string    `json:"image_url" db:"image_url"`
	// ImageKey names an uploaded image in object storage. ImageURL is
	// derived from it on every read.
	ImageKey               string    `json:"-" db:"image_key"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}
