package events

import (
	"context"
	"time"

	"ambeauty/internal/domain"
)

type Type string

const (
	TypeBookingCreated       Type = "booking.created"
	TypeBookingStatusChanged Type = "booking.status_changed"
)

// Event is what admins receive on the booking feed.
type Event struct {
	Type           Type                 `json:"type"`
	BookingID      int64                `json:"booking_id"`
	TimeSlotID     int64                `json:"time_slot_id"`
	CustomerID     int64                `json:"customer_id"`
	Service        string               `json:"service"`
	Date           string               `json:"date"`
	Time           string               `json:"time"`
	Status         domain.BookingStatus `json:"status"`
	PreviousStatus domain.BookingStatus `json:"previous_status,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

func BookingCreated(b *domain.Booking) Event {
	return newEvent(TypeBookingCreated, b, "")
}

func BookingStatusChanged(b *domain.Booking, previous domain.BookingStatus) Event {
	return newEvent(TypeBookingStatusChanged, b, previous)
}

func newEvent(t Type, b *domain.Booking, previous domain.BookingStatus) Event {
	return Event{
		Type:           t,
		BookingID:      b.ID,
		TimeSlotID:     b.TimeSlotID,
		CustomerID:     b.CustomerID,
		Service:        b.Service,
		Date:           b.Date,
		Time:           b.Time,
		Status:         b.Status,
		PreviousStatus: previous,
		OccurredAt:     time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Sink receives events for delivery to connected clients.
type Sink interface {
	Broadcast(e Event) int
}

// LocalPublisher hands events straight to an in-process sink.
type LocalPublisher struct {
	sink Sink
}

func NewLocalPublisher(sink Sink) *LocalPublisher {
	return &LocalPublisher{sink: sink}
}

func (p *LocalPublisher) Publish(_ context.Context, e Event) error {
	p.sink.Broadcast(e)
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
