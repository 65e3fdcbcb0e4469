package booking

import (
	"context"
	"time"

	"ambeauty/internal/domain"
)

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, cancelledAt *time.Time) (bool, error)
}

// SlotRegistry is the part of the slot service bookings depend on.
type SlotRegistry interface {
	GetSlot(ctx context.Context, id int64) (*domain.TimeSlot, error)
	Reserve(ctx context.Context, id int64) error
	Release(ctx context.Context, id int64) error
	NormalizeService(name string) (string, error)
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
