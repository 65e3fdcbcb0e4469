package review

import (
	"context"

	"ambeauty/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForBooking(ctx context.Context, bookingID int64) (bool, error)
	ListByStatus(ctx context.Context, status domain.ReviewStatus) ([]domain.Review, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ReviewStatus) (bool, error)
	RatingCounts(ctx context.Context) (map[int]int64, error)
}

// BookingGate is what reviews need to know about bookings.
type BookingGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListReviewable(ctx context.Context, customerID int64) ([]domain.Booking, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
