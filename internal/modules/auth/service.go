package auth

import (
	"context"
	"errors"
	"strings"

	"ambeauty/internal/domain"
	"ambeauty/internal/pkg/validator"
	"ambeauty/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const adminUsername = "admin"

// Service contains all business logic for authentication
type Service struct {
	users UserRepository
	jwt   TokenService
}

func NewService(users UserRepository, jwt TokenService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates a client account and signs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.Instagram = strings.TrimSpace(req.Instagram)
	if errs := validator.Validate(req); errs != nil {
		return nil, domain.NewError(domain.ErrValidation, validator.Message(errs))
	}

	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Username:     req.Username,
		Instagram:    req.Instagram,
		Role:         domain.RoleClient,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issue(user)
}

// Login never reveals whether the email or the password was wrong.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, domain.NewError(domain.ErrValidation, validator.Message(errs))
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authorize resolves a token into a principal. An empty required role
// accepts any authenticated user.
func (s *Service) Authorize(token string, required domain.UserRole) (domain.Principal, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	principal := domain.Principal{UserID: claims.UserID, Role: domain.UserRole(claims.Role)}
	if principal.Role != domain.RoleClient && principal.Role != domain.RoleAdmin {
		return domain.Principal{}, ErrInvalidToken
	}
	if required != "" && principal.Role != required {
		return domain.Principal{}, ErrInsufficientRole
	}
	return principal, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes username and instagram only.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, domain.NewError(domain.ErrValidation, validator.Message(errs))
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, ErrEmptyUsername
		}
		user.Username = username
	}
	if req.Instagram != nil {
		user.Instagram = strings.TrimSpace(*req.Instagram)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin makes sure an admin account with these credentials exists.
// Running it again with the same input changes nothing.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < 6 {
		return nil, domain.NewError(domain.ErrValidation, "admin email and a password of at least 6 characters are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user != nil {
		if user.Role == domain.RoleAdmin &&
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
			return user, nil
		}
		hash, err := s.hashPassword(password)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdateCredentials(ctx, user.ID, hash, domain.RoleAdmin); err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		user.Role = domain.RoleAdmin
		return user, nil
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user = &domain.User{
		Email:        email,
		PasswordHash: hash,
		Username:     adminUsername,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailAlreadyExists
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
