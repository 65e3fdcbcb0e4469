package review

import "ambeauty/internal/domain"

var (
	ErrReviewNotFound   = domain.NewError(domain.ErrNotFound, "review not found")
	ErrBookingNotFound  = domain.NewError(domain.ErrNotFound, "booking not found")
	ErrClientOnly       = domain.NewError(domain.ErrForbidden, "only clients can leave reviews")
	ErrAdminOnly        = domain.NewError(domain.ErrForbidden, "admin role required")
	ErrReviewNotAllowed = domain.NewError(domain.ErrForbidden, "this booking is not eligible for a review")
	ErrAlreadyReviewed  = domain.NewError(domain.ErrConflict, "this booking already has a review")
	ErrInvalidRating    = domain.NewError(domain.ErrValidation, "rating must be between 1 and 5")
	ErrInvalidDecision  = domain.NewError(domain.ErrValidation, "status must be approved or rejected")
	ErrConcurrentUpdate = domain.NewError(domain.ErrConflict, "review was modified by another request")
)
