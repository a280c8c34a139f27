package service

import (
	"context"
	"time"

	"drively/pkg/kafka"
	"drively/pkg/model"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	eventSource = "bookings"
)

// EventPublisher is the slice of the Kafka producer the booking
// service needs; nil disables event publishing.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingEvent is the payload published on booking lifecycle changes.
type BookingEvent struct {
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	CarID       string    `json:"car_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
}

// publishEvent emits a lifecycle event. Failures are logged, never
// surfaced: the booking is already durable and events are advisory.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.events == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventType(eventType).
		WithSource(eventSource).
		WithValue(BookingEvent{
			BookingID:   booking.ID,
			UserID:      booking.UserID,
			CarID:       booking.CarID,
			StartDate:   booking.StartDate,
			EndDate:     booking.EndDate,
			TotalAmount: booking.TotalAmount,
			Status:      booking.Status,
		}).
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
