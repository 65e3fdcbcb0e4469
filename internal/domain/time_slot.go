package domain

import "time"

// DateLayout and TimeLayout are the wire formats of a slot's date and time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeSlot is a bookable appointment start. An empty Service marks a
// universal slot that accepts any service.
type TimeSlot struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Service     string    `json:"service"`
	Universal   bool      `json:"universal"`
	IsAvailable bool      `json:"is_available"`
	IsBooked    bool      `json:"is_booked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Accepts reports whether a booking for service may use this slot.
// An empty service means the client did not pick one.
func (s *TimeSlot) Accepts(service string) bool {
	return s.Service == "" || service == "" || s.Service == service
}

type SlotFilter struct {
	Date    string
	Service string
}
