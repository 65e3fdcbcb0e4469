package slot

import (
	"context"

	"ambeauty/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, s *domain.TimeSlot) error
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	Exists(ctx context.Context, date, clock, service string) (bool, error)
	ListAvailable(ctx context.Context, f domain.SlotFilter) ([]domain.TimeSlot, error)
	ListAll(ctx context.Context, f domain.SlotFilter) ([]domain.TimeSlot, error)
	SetAvailability(ctx context.Context, id int64, available bool) (bool, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) (bool, error)
	DeleteUnbooked(ctx context.Context, id int64) (bool, error)
}
