package booking

import "ambeauty/internal/domain"

var (
	ErrBookingNotFound  = domain.NewError(domain.ErrNotFound, "booking not found")
	ErrClientOnly       = domain.NewError(domain.ErrForbidden, "only clients can book")
	ErrAdminOnly        = domain.NewError(domain.ErrForbidden, "admin role required")
	ErrServiceMismatch  = domain.NewError(domain.ErrValidation, "this time slot is reserved for another service")
	ErrUnknownStatus    = domain.NewError(domain.ErrValidation, "unknown booking status")
	ErrConcurrentUpdate = domain.NewError(domain.ErrConflict, "booking was modified by another request")
)
