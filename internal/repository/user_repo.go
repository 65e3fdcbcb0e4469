package repository

import (
	"context"
	"strings"
	"time"

	"ambeauty/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Username     string    `gorm:"column:username;size:100;not null"`
	Role         string    `gorm:"column:role;size:20;not null"`
	Instagram    *string   `gorm:"column:instagram;size:100"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var instagram string
	if m.Instagram != nil {
		instagram = *m.Instagram
	}

	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Username:     m.Username,
		Role:         domain.UserRole(m.Role),
		Instagram:    instagram,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var instagram *string
	if u.Instagram != "" {
		v := u.Instagram
		instagram = &v
	}

	return userModel{
		ID:           u.ID,
		Email:        strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash: u.PasswordHash,
		Username:     u.Username,
		Role:         string(u.Role),
		Instagram:    instagram,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := conn(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

// GetByIDs returns the users found among ids, keyed by id.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []userModel
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = toDomainUser(m)
	}
	return out, nil
}

// UpdateProfile writes username and instagram only.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := conn(ctx, r.db).Model(&userModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"username":   m.Username,
			"instagram":  m.Instagram,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateCredentials resets password hash and role; used by the admin bootstrap.
func (r *UserRepository) UpdateCredentials(ctx context.Context, id int64, passwordHash string, role domain.UserRole) error {
	tx := conn(ctx, r.db).Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"role":          string(role),
			"updated_at":    time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
