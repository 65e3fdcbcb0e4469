package auth

import "ambeauty/internal/domain"

var (
	ErrInvalidCredentials = domain.NewError(domain.ErrUnauthenticated, "invalid email or password")
	ErrEmailAlreadyExists = domain.NewError(domain.ErrConflict, "email already registered")
	ErrInvalidToken       = domain.NewError(domain.ErrUnauthenticated, "invalid or expired token")
	ErrInsufficientRole   = domain.NewError(domain.ErrForbidden, "insufficient permissions")
	ErrUserNotFound       = domain.NewError(domain.ErrNotFound, "user not found")
	ErrEmptyUsername      = domain.NewError(domain.ErrValidation, "username must not be empty")
)
