package repository

import (
	"context"
	"time"

	"ambeauty/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id;not null;uniqueIndex"`
	CustomerID int64     `gorm:"column:customer_id;not null;index"`
	Username   string    `gorm:"column:username;size:100;not null"`
	Service    string    `gorm:"column:service;size:100;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    *string   `gorm:"column:comment"`
	Status     string    `gorm:"column:status;size:20;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	var comment string
	if m.Comment != nil {
		comment = *m.Comment
	}
	return &domain.Review{
		ID:         m.ID,
		BookingID:  m.BookingID,
		CustomerID: m.CustomerID,
		Username:   m.Username,
		Service:    m.Service,
		Rating:     m.Rating,
		Comment:    comment,
		Status:     domain.ReviewStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toReviewModel(rv *domain.Review) reviewModel {
	var comment *string
	if rv.Comment != "" {
		v := rv.Comment
		comment = &v
	}
	return reviewModel{
		ID:         rv.ID,
		BookingID:  rv.BookingID,
		CustomerID: rv.CustomerID,
		Username:   rv.Username,
		Service:    rv.Service,
		Rating:     rv.Rating,
		Comment:    comment,
		Status:     string(rv.Status),
		CreatedAt:  rv.CreatedAt,
		UpdatedAt:  rv.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&reviewModel{}).
		Where("booking_id = ?", bookingID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *ReviewRepository) ListByStatus(ctx context.Context, status domain.ReviewStatus) ([]domain.Review, error) {
	var rows []reviewModel
	err := conn(ctx, r.db).
		Where("status = ?", string(status)).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

// UpdateStatus moves a review out of from. It reports false when the review
// is missing or no longer in from.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReviewStatus) (bool, error) {
	tx := conn(ctx, r.db).Model(&reviewModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// RatingCounts returns approved review counts keyed by star rating.
func (r *ReviewRepository) RatingCounts(ctx context.Context) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Cnt    int64
	}
	err := conn(ctx, r.db).Model(&reviewModel{}).
		Select("rating, COUNT(*) AS cnt").
		Where("status = ?", string(domain.ReviewApproved)).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(rows))
	for _, row := range rows {
		out[row.Rating] = row.Cnt
	}
	return out, nil
}
