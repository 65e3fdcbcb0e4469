package auth

import (
	"context"

	"ambeauty/internal/domain"
	"ambeauty/internal/pkg/jwt"
)

// UserRepository is the part of the user store auth needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
	UpdateCredentials(ctx context.Context, id int64, passwordHash string, role domain.UserRole) error
}

type TokenService interface {
	GenerateToken(userID int64, role string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
