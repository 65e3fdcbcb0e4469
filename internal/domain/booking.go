package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether an admin may move a booking from s to next.
// Self-transitions are never legal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reviewable reports whether a booking in this status may receive a review.
func (s BookingStatus) Reviewable() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

type Booking struct {
	ID          int64            `json:"id"`
	CustomerID  int64            `json:"customer_id"`
	TimeSlotID  int64            `json:"time_slot_id"`
	Service     string           `json:"service"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Notes       string           `json:"notes,omitempty"`
	Status      BookingStatus    `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CancelledAt *time.Time       `json:"cancelled_at,omitempty"`
	Customer    *BookingCustomer `json:"customer,omitempty"`
}

// BookingCustomer is the public part of the owning user, attached to
// admin listings.
type BookingCustomer struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Instagram string `json:"instagram,omitempty"`
}

type BookingFilter struct {
	Status BookingStatus
	Limit  int
	Offset int
}
