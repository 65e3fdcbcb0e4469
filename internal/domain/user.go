package domain

import "time"

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Username     string    `json:"username"`
	Role         UserRole  `json:"role"`
	Instagram    string    `json:"instagram,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated caller of a request, resolved once from
// the bearer token and passed explicitly into every service call.
type Principal struct {
	UserID int64    `json:"user_id"`
	Role   UserRole `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) IsClient() bool { return p.Role == RoleClient }
