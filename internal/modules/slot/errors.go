package slot

import "ambeauty/internal/domain"

var (
	ErrSlotNotFound      = domain.NewError(domain.ErrNotFound, "time slot not found")
	ErrSlotAlreadyBooked = domain.NewError(domain.ErrConflict, "slot already booked")
	ErrSlotExists        = domain.NewError(domain.ErrConflict, "a time slot already exists for this date, time and service")
	ErrSlotInUse         = domain.NewError(domain.ErrConflict, "cannot delete a booked time slot")
	ErrAdminOnly         = domain.NewError(domain.ErrForbidden, "admin role required")
	ErrInvalidDate       = domain.NewError(domain.ErrValidation, "date must be YYYY-MM-DD")
	ErrInvalidTime       = domain.NewError(domain.ErrValidation, "time is not one of the salon's slot times")
	ErrUnknownService    = domain.NewError(domain.ErrValidation, "unknown service")
)
