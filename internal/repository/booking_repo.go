package repository

import (
	"context"
	"time"

	"ambeauty/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db    *gorm.DB
	users *UserRepository
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db, users: NewUserRepository(db)}
}

type bookingModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	CustomerID  int64      `gorm:"column:customer_id;not null;index"`
	TimeSlotID  int64      `gorm:"column:time_slot_id;not null;index"`
	Service     string     `gorm:"column:service;size:100;not null"`
	SlotDate    string     `gorm:"column:slot_date;size:10;not null"`
	SlotTime    string     `gorm:"column:slot_time;size:5;not null"`
	Notes       *string    `gorm:"column:notes"`
	Status      string     `gorm:"column:status;size:20;not null;index"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}

	return &domain.Booking{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		TimeSlotID:  m.TimeSlotID,
		Service:     m.Service,
		Date:        m.SlotDate,
		Time:        m.SlotTime,
		Notes:       notes,
		Status:      domain.BookingStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CancelledAt: m.CancelledAt,
	}
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}

	return bookingModel{
		ID:          b.ID,
		CustomerID:  b.CustomerID,
		TimeSlotID:  b.TimeSlotID,
		Service:     b.Service,
		SlotDate:    b.Date,
		SlotTime:    b.Time,
		Notes:       notes,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CancelledAt: b.CancelledAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	err := conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// List returns bookings newest first with their customers attached.
func (r *BookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	q := conn(ctx, r.db).Model(&bookingModel{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []bookingModel
	if err := q.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := toDomainBookings(rows)
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(out))
	seen := make(map[int64]bool, len(out))
	for _, b := range out {
		if !seen[b.CustomerID] {
			seen[b.CustomerID] = true
			ids = append(ids, b.CustomerID)
		}
	}
	users, err := r.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if u, ok := users[out[i].CustomerID]; ok {
			out[i].Customer = &domain.BookingCustomer{
				ID:        u.ID,
				Username:  u.Username,
				Email:     u.Email,
				Instagram: u.Instagram,
			}
		}
	}
	return out, nil
}

// UpdateStatus moves a booking from one status to another only if it is
// still in from. It reports false when another writer got there first or
// the booking does not exist.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, cancelledAt *time.Time) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}

	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// ListReviewable returns the customer's confirmed or completed bookings
// that have no review yet.
func (r *BookingRepository) ListReviewable(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	err := conn(ctx, r.db).
		Where("customer_id = ? AND status IN ?", customerID,
			[]string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Where("NOT EXISTS (SELECT 1 FROM reviews WHERE reviews.booking_id = bookings.id)").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}
