package model

import "time"

// Booking statuses. PENDING is a reserved value for future payment
// flows: the creation path always produces CONFIRMED, but PENDING
// bookings still count toward date conflicts.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// ActiveStatuses are the statuses that block a car's date range.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// Booking is the durable booking record. StartDate and EndDate are
// pinned to UTC midnight; the range is inclusive on both ends, so a
// single-day rental has StartDate == EndDate. Price fields are a
// snapshot taken at creation and never recomputed.
type Booking struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         string    `json:"user_id" bson:"user_id"`
	CarID          string    `json:"car_id" bson:"car_id"`
	PickupLocation string    `json:"pickup_location" bson:"pickup_location"`
	StartDate      time.Time `json:"start_date" bson:"start_date"`
	EndDate        time.Time `json:"end_date" bson:"end_date"`
	PricePerDay    float64   `json:"price_per_day" bson:"price_per_day"`
	Days           int       `json:"days" bson:"days"`
	SubTotal       float64   `json:"sub_total" bson:"sub_total"`
	TaxRate        float64   `json:"tax_rate" bson:"tax_rate"`
	TaxAmount      float64   `json:"tax_amount" bson:"tax_amount"`
	TotalAmount    float64   `json:"total_amount" bson:"total_amount"`
	Status         string    `json:"status" bson:"status"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the creation payload. Dates accept either
// YYYY-MM-DD or RFC3339; any time-of-day component is discarded.
type BookingRequest struct {
	CarID          string `json:"car_id" validate:"required,mongodb"`
	PickupLocation string `json:"pickup_location" validate:"required,min=2,max=200"`
	StartDate      string `json:"start_date" validate:"required,rental_date"`
	EndDate        string `json:"end_date" validate:"required,rental_date"`
}

// BookingWithCar joins a booking with its car record for responses.
// The car may be nil if it was hard-deleted after the booking.
type BookingWithCar struct {
	Booking
	Car *Car `json:"car"`
}
