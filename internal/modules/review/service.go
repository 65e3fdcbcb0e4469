package review

import (
	"context"
	"errors"
	"math"
	"strings"

	"ambeauty/internal/domain"
	"ambeauty/internal/pkg/validator"
	"ambeauty/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	reviews  ReviewRepository
	bookings BookingGate
	users    UserDirectory
}

func NewService(reviews ReviewRepository, bookings BookingGate, users UserDirectory) *Service {
	return &Service{reviews: reviews, bookings: bookings, users: users}
}

// Submit records a pending review for one of the caller's confirmed or
// completed bookings.
func (s *Service) Submit(ctx context.Context, principal domain.Principal, req CreateReviewRequest) (*domain.Review, error) {
	if !principal.IsClient() {
		return nil, ErrClientOnly
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, domain.NewError(domain.ErrValidation, validator.Message(errs))
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.CustomerID != principal.UserID || !b.Status.Reviewable() {
		return nil, ErrReviewNotAllowed
	}

	exists, err := s.reviews.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	author, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	rv := &domain.Review{
		BookingID:  b.ID,
		CustomerID: principal.UserID,
		Username:   author.Username,
		Service:    b.Service,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		Status:     domain.ReviewPending,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListApproved(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.ListByStatus(ctx, domain.ReviewApproved)
}

func (s *Service) ListPending(ctx context.Context, principal domain.Principal) ([]domain.Review, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.reviews.ListByStatus(ctx, domain.ReviewPending)
}

// Moderate approves or rejects a review. A review can be re-moderated,
// but not into the status it already has.
func (s *Service) Moderate(ctx context.Context, principal domain.Principal, reviewID int64, status domain.ReviewStatus) (*domain.Review, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if status != domain.ReviewApproved && status != domain.ReviewRejected {
		return nil, ErrInvalidDecision
	}

	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if rv.Status == status {
		return nil, domain.NewError(domain.ErrInvalidTransition, "review is already "+string(status))
	}

	ok, err := s.reviews.UpdateStatus(ctx, rv.ID, rv.Status, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConcurrentUpdate
	}
	rv.Status = status
	return rv, nil
}

// Stats summarises approved reviews. Every star from 1 to 5 is present in
// the distribution, zero counts included.
func (s *Service) Stats(ctx context.Context) (*domain.ReviewStats, error) {
	counts, err := s.reviews.RatingCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.ReviewStats{Distribution: make(map[int]int64, 5)}
	var sum int64
	for star := 1; star <= 5; star++ {
		n := counts[star]
		stats.Distribution[star] = n
		stats.TotalReviews += n
		sum += int64(star) * n
	}
	if stats.TotalReviews > 0 {
		avg := float64(sum) / float64(stats.TotalReviews)
		stats.AverageRating = math.Round(avg*10) / 10
	}
	return stats, nil
}

func (s *Service) EligibleBookings(ctx context.Context, principal domain.Principal) ([]domain.Booking, error) {
	return s.bookings.ListReviewable(ctx, principal.UserID)
}
