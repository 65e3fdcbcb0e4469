package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"ambeauty/internal/domain"
	"ambeauty/internal/events"
	"ambeauty/internal/modules/slot"
	"ambeauty/internal/observability/metrics"
	"ambeauty/internal/pkg/logging"
	"ambeauty/internal/pkg/validator"
	"ambeauty/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var tracer = otel.Tracer("ambeauty.internal.modules.booking")

type Service struct {
	bookings  BookingRepository
	slots     SlotRegistry
	tx        TxManager
	publisher events.Publisher
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
}

func NewService(
	bookings BookingRepository,
	slots SlotRegistry,
	tx TxManager,
	publisher events.Publisher,
	m *metrics.BookingMetrics,
	logger *logging.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		bookings:  bookings,
		slots:     slots,
		tx:        tx,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// CreateBooking reserves the slot and records a pending booking in one
// transaction. Either both happen or neither does.
func (s *Service) CreateBooking(ctx context.Context, principal domain.Principal, req CreateBookingRequest) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("ambeauty.customer_id", principal.UserID),
		attribute.Int64("ambeauty.slot_id", req.TimeSlotID),
	)

	if !principal.IsClient() {
		return nil, ErrClientOnly
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, domain.NewError(domain.ErrValidation, validator.Message(errs))
	}
	requested, err := s.slots.NormalizeService(req.Service)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ts, err := s.slots.GetSlot(ctx, req.TimeSlotID)
		if err != nil {
			return err
		}
		if !ts.Accepts(requested) {
			return ErrServiceMismatch
		}
		if err := s.slots.Reserve(ctx, ts.ID); err != nil {
			return err
		}

		service := ts.Service
		if service == "" {
			service = requested
		}
		booking = &domain.Booking{
			CustomerID: principal.UserID,
			TimeSlotID: ts.ID,
			Service:    service,
			Date:       ts.Date,
			Time:       ts.Time,
			Notes:      strings.TrimSpace(req.Notes),
			Status:     domain.BookingPending,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			if repository.IsUniqueViolation(err) {
				return slot.ErrSlotAlreadyBooked
			}
			return err
		}
		return nil
	})
	if err != nil {
		if domain.KindOf(err) == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "create booking failed")
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("ambeauty.booking_id", booking.ID))
	s.metrics.ObserveBookingCreated(booking.Service)
	s.publish(ctx, events.BookingCreated(booking))
	return booking, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

// ListAll returns every booking newest first, with the customer attached.
func (s *Service) ListAll(ctx context.Context, principal domain.Principal, q ListQuery) ([]domain.Booking, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}

	status := domain.BookingStatus(strings.TrimSpace(q.Status))
	if status != "" && !status.Valid() {
		return nil, ErrUnknownStatus
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, domain.NewError(domain.ErrValidation, "limit and offset must not be negative")
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return s.bookings.List(ctx, domain.BookingFilter{Status: status, Limit: limit, Offset: q.Offset})
}

// SetStatus moves a booking along the workflow. Cancelling also frees
// the slot in the same transaction.
func (s *Service) SetStatus(ctx context.Context, principal domain.Principal, bookingID int64, next domain.BookingStatus) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.set_status")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("ambeauty.booking_id", bookingID),
		attribute.String("ambeauty.status", string(next)),
	)

	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !next.Valid() {
		return nil, ErrUnknownStatus
	}

	var (
		booking  *domain.Booking
		previous domain.BookingStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !b.Status.CanTransitionTo(next) {
			return domain.NewError(domain.ErrInvalidTransition,
				"cannot move booking from "+string(b.Status)+" to "+string(next))
		}

		var cancelledAt *time.Time
		if next == domain.BookingCancelled {
			now := time.Now().UTC()
			cancelledAt = &now
		}
		ok, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, next, cancelledAt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentUpdate
		}
		if next == domain.BookingCancelled {
			if err := s.slots.Release(ctx, b.TimeSlotID); err != nil {
				return err
			}
		}

		previous = b.Status
		b.Status = next
		b.CancelledAt = cancelledAt
		booking = b
		return nil
	})
	if err != nil {
		if domain.KindOf(err) == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "set booking status failed")
		}
		return nil, err
	}

	s.metrics.ObserveTransition(string(previous), string(next))
	s.publish(ctx, events.BookingStatusChanged(booking, previous))
	return booking, nil
}

// publish never fails the caller; the booking is already committed.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("booking event publish failed",
			"type", string(e.Type),
			"booking_id", e.BookingID,
			"error", err,
		)
	}
}
