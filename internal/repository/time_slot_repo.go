package repository

import (
	"context"
	"time"

	"ambeauty/internal/domain"

	"gorm.io/gorm"
)

type TimeSlotRepository struct {
	db *gorm.DB
}

func NewTimeSlotRepository(db *gorm.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

type timeSlotModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	SlotDate    string    `gorm:"column:slot_date;size:10;not null;uniqueIndex:idx_time_slots_key,priority:1"`
	SlotTime    string    `gorm:"column:slot_time;size:5;not null;uniqueIndex:idx_time_slots_key,priority:2"`
	Service     string    `gorm:"column:service;size:100;not null;uniqueIndex:idx_time_slots_key,priority:3"`
	IsAvailable bool      `gorm:"column:is_available;not null"`
	IsBooked    bool      `gorm:"column:is_booked;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (timeSlotModel) TableName() string { return "time_slots" }

func toDomainTimeSlot(m timeSlotModel) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:          m.ID,
		Date:        m.SlotDate,
		Time:        m.SlotTime,
		Service:     m.Service,
		Universal:   m.Service == "",
		IsAvailable: m.IsAvailable,
		IsBooked:    m.IsBooked,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toTimeSlotModel(s *domain.TimeSlot) timeSlotModel {
	return timeSlotModel{
		ID:          s.ID,
		SlotDate:    s.Date,
		SlotTime:    s.Time,
		Service:     s.Service,
		IsAvailable: s.IsAvailable,
		IsBooked:    s.IsBooked,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *TimeSlotRepository) Create(ctx context.Context, s *domain.TimeSlot) error {
	m := toTimeSlotModel(s)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainTimeSlot(m)
	return nil
}

func (r *TimeSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	var m timeSlotModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainTimeSlot(m), nil
}

// Exists reports whether a slot with the same date, time and service scope
// is already registered.
func (r *TimeSlotRepository) Exists(ctx context.Context, date, clock, service string) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&timeSlotModel{}).
		Where("slot_date = ? AND slot_time = ? AND service = ?", date, clock, service).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ListAvailable returns open slots. A non-empty filter service also matches
// universal slots.
func (r *TimeSlotRepository) ListAvailable(ctx context.Context, f domain.SlotFilter) ([]domain.TimeSlot, error) {
	q := conn(ctx, r.db).Where("is_available = ? AND is_booked = ?", true, false)
	return r.list(q, f)
}

func (r *TimeSlotRepository) ListAll(ctx context.Context, f domain.SlotFilter) ([]domain.TimeSlot, error) {
	return r.list(conn(ctx, r.db), f)
}

func (r *TimeSlotRepository) list(q *gorm.DB, f domain.SlotFilter) ([]domain.TimeSlot, error) {
	if f.Date != "" {
		q = q.Where("slot_date = ?", f.Date)
	}
	if f.Service != "" {
		q = q.Where("(service = '' OR service = ?)", f.Service)
	}

	var rows []timeSlotModel
	if err := q.Order("slot_date ASC, slot_time ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.TimeSlot, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTimeSlot(m))
	}
	return out, nil
}

// SetAvailability reports false when no slot has the given id.
func (r *TimeSlotRepository) SetAvailability(ctx context.Context, id int64, available bool) (bool, error) {
	tx := conn(ctx, r.db).Model(&timeSlotModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_available": available, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Reserve flips is_booked on an open slot in one conditional statement.
// It reports false when the slot is missing, closed or already booked.
func (r *TimeSlotRepository) Reserve(ctx context.Context, id int64) (bool, error) {
	tx := conn(ctx, r.db).Model(&timeSlotModel{}).
		Where("id = ? AND is_booked = ? AND is_available = ?", id, false, true).
		Updates(map[string]any{"is_booked": true, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Release clears is_booked. It reports false when the slot is missing.
func (r *TimeSlotRepository) Release(ctx context.Context, id int64) (bool, error) {
	tx := conn(ctx, r.db).Model(&timeSlotModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_booked": false, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteUnbooked removes the slot only while nothing holds it.
func (r *TimeSlotRepository) DeleteUnbooked(ctx context.Context, id int64) (bool, error) {
	tx := conn(ctx, r.db).
		Where("id = ? AND is_booked = ?", id, false).
		Delete(&timeSlotModel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
