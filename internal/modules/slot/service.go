package slot

import (
	"context"
	"errors"
	"time"

	"ambeauty/internal/config"
	"ambeauty/internal/domain"
	"ambeauty/internal/observability/metrics"
	"ambeauty/internal/pkg/validator"
	"ambeauty/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("ambeauty.internal.modules.slot")

type Service struct {
	slots    Repository
	schedule *config.Schedule
	metrics  *metrics.BookingMetrics
}

func NewService(slots Repository, schedule *config.Schedule, m *metrics.BookingMetrics) *Service {
	if schedule == nil {
		schedule = config.DefaultSchedule()
	}
	return &Service{slots: slots, schedule: schedule, metrics: m}
}

// Schedule exposes the catalog the service validates against.
func (s *Service) Schedule() *config.Schedule {
	return s.schedule
}

func (s *Service) CreateSlot(ctx context.Context, principal domain.Principal, req CreateSlotRequest) (*domain.TimeSlot, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, domain.NewError(domain.ErrValidation, validator.Message(errs))
	}
	if !validDate(req.Date) {
		return nil, ErrInvalidDate
	}
	if !s.schedule.ValidTime(req.Time) {
		return nil, ErrInvalidTime
	}
	service, err := s.normalizeService(req.Service)
	if err != nil {
		return nil, err
	}

	exists, err := s.slots.Exists(ctx, req.Date, req.Time, service)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlotExists
	}

	slot := &domain.TimeSlot{
		Date:        req.Date,
		Time:        req.Time,
		Service:     service,
		IsAvailable: true,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlotExists
		}
		return nil, err
	}
	return slot, nil
}

// ListAvailable returns open slots ordered by date then time. A service
// filter also matches universal slots.
func (s *Service) ListAvailable(ctx context.Context, q Query) ([]domain.TimeSlot, error) {
	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}
	return s.slots.ListAvailable(ctx, f)
}

func (s *Service) ListAll(ctx context.Context, principal domain.Principal, q Query) ([]domain.TimeSlot, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}
	return s.slots.ListAll(ctx, f)
}

func (s *Service) GetSlot(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

// SetAvailability toggles the administrative flag; is_booked is untouched.
func (s *Service) SetAvailability(ctx context.Context, principal domain.Principal, id int64, available bool) (*domain.TimeSlot, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	ok, err := s.slots.SetAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotNotFound
	}
	return s.GetSlot(ctx, id)
}

// Reserve marks an open slot booked. Of any number of concurrent calls for
// one slot exactly one succeeds; the rest get ErrSlotAlreadyBooked.
func (s *Service) Reserve(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "slot.reserve")
	defer span.End()
	span.SetAttributes(attribute.Int64("ambeauty.slot_id", id))

	ok, err := s.slots.Reserve(ctx, id)
	if err != nil {
		s.metrics.ObserveReservation("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "reserve failed")
		return err
	}
	if ok {
		s.metrics.ObserveReservation("ok")
		return nil
	}

	slot, err := s.GetSlot(ctx, id)
	switch {
	case errors.Is(err, ErrSlotNotFound):
		s.metrics.ObserveReservation("not_found")
		return ErrSlotNotFound
	case err != nil:
		s.metrics.ObserveReservation("error")
		span.RecordError(err)
		return err
	case !slot.IsAvailable:
		s.metrics.ObserveReservation("not_found")
		return ErrSlotNotFound
	default:
		s.metrics.ObserveReservation("conflict")
		return ErrSlotAlreadyBooked
	}
}

func (s *Service) Release(ctx context.Context, id int64) error {
	ok, err := s.slots.Release(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotNotFound
	}
	return nil
}

// DeleteSlot removes a slot that nothing holds.
func (s *Service) DeleteSlot(ctx context.Context, principal domain.Principal, id int64) error {
	if !principal.IsAdmin() {
		return ErrAdminOnly
	}
	deleted, err := s.slots.DeleteUnbooked(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}
	if _, err := s.GetSlot(ctx, id); err != nil {
		return err
	}
	return ErrSlotInUse
}

// NormalizeService maps a client-supplied service name onto the catalog.
func (s *Service) NormalizeService(name string) (string, error) {
	return s.normalizeService(name)
}

func (s *Service) normalizeService(name string) (string, error) {
	service := s.schedule.NormalizeService(name)
	if !s.schedule.ValidService(service) {
		return "", ErrUnknownService
	}
	return service, nil
}

func (s *Service) filter(q Query) (domain.SlotFilter, error) {
	if q.Date != "" && !validDate(q.Date) {
		return domain.SlotFilter{}, ErrInvalidDate
	}
	service, err := s.normalizeService(q.Service)
	if err != nil {
		return domain.SlotFilter{}, err
	}
	return domain.SlotFilter{Date: q.Date, Service: service}, nil
}

func validDate(v string) bool {
	d, err := time.Parse(domain.DateLayout, v)
	return err == nil && d.Format(domain.DateLayout) == v
}
