package auth

import "ambeauty/internal/domain"

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Username  string `json:"username" validate:"required,max=100"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Instagram string `json:"instagram,omitempty" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,max=100"`
	Instagram *string `json:"instagram,omitempty" validate:"omitempty,max=100"`
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
