package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"ambeauty/internal/domain"
	"ambeauty/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 77 // simulate DB insert
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) UpdateCredentials(ctx context.Context, id int64, passwordHash string, role domain.UserRole) error {
	return m.Called(ctx, id, passwordHash, role).Error(0)
}

func newTestService(users *mockUserRepo) *Service {
	return NewService(users, jwt.New("test-secret", time.Hour))
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "alice@example.com" && u.Role == domain.RoleClient && u.Username == "Alice" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)

	svc := newTestService(users)
	res, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  Alice@Example.com ",
		Username: " Alice ",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(77), res.User.ID)
	assert.NotEmpty(t, res.Token)

	principal, err := svc.Authorize(res.Token, "")
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{UserID: 77, Role: domain.RoleClient}, principal)
	users.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"malformed email", RegisterRequest{Email: "not-an-email", Username: "a", Password: "secret1"}},
		{"empty username", RegisterRequest{Email: "a@b.fr", Username: "   ", Password: "secret1"}},
		{"short password", RegisterRequest{Email: "a@b.fr", Username: "a", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserRepo)
			_, err := newTestService(users).Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "a@b.fr").Return(&domain.User{ID: 1}, nil)

	_, err := newTestService(users).Register(context.Background(), RegisterRequest{Email: "a@b.fr", Username: "a", Password: "secret1"})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_DuplicateEmailRace(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "a@b.fr").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(errors.New("UNIQUE constraint failed: users.email"))

	_, err := newTestService(users).Register(context.Background(), RegisterRequest{Email: "a@b.fr", Username: "a", Password: "secret1"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin(t *testing.T) {
	stored := &domain.User{ID: 5, Email: "a@b.fr", PasswordHash: hashed(t, "secret1"), Role: domain.RoleAdmin}

	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "a@b.fr").Return(stored, nil)
	users.On("GetByEmail", mock.Anything, "ghost@b.fr").Return(nil, gorm.ErrRecordNotFound)
	svc := newTestService(users)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "A@B.fr", Password: "secret1"})
	require.NoError(t, err)
	p, err := svc.Authorize(res.Token, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.UserID)

	_, wrongPassword := svc.Login(context.Background(), LoginRequest{Email: "a@b.fr", Password: "nope"})
	_, unknownEmail := svc.Login(context.Background(), LoginRequest{Email: "ghost@b.fr", Password: "secret1"})
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthorize(t *testing.T) {
	svc := newTestService(new(mockUserRepo))
	tokens := jwt.New("test-secret", time.Hour)
	clientToken, _ := tokens.GenerateToken(3, "client")
	foreignToken, _ := jwt.New("other-secret", time.Hour).GenerateToken(3, "admin")
	oddRoleToken, _ := tokens.GenerateToken(3, "superuser")

	_, err := svc.Authorize(clientToken, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Authorize(foreignToken, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Authorize(oddRoleToken, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Authorize("garbage", "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdateProfile_Partial(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Email: "a@b.fr", Username: "old", Instagram: "@old", Role: domain.RoleClient}, nil)
	users.On("UpdateProfile", mock.Anything, mock.Anything).Return(nil)

	insta := " @new "
	user, err := newTestService(users).UpdateProfile(context.Background(), 5, UpdateProfileRequest{Instagram: &insta})

	require.NoError(t, err)
	assert.Equal(t, "old", user.Username)
	assert.Equal(t, "@new", user.Instagram)
	assert.Equal(t, "a@b.fr", user.Email)
	assert.Equal(t, domain.RoleClient, user.Role)
}

func TestUpdateProfile_EmptyUsername(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Username: "old"}, nil)

	empty := "  "
	_, err := newTestService(users).UpdateProfile(context.Background(), 5, UpdateProfileRequest{Username: &empty})

	assert.ErrorIs(t, err, domain.ErrValidation)
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func TestMe_NotFound(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := newTestService(users).Me(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("GetByEmail", mock.Anything, "admin@ambeauty.fr").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RoleAdmin && u.Email == "admin@ambeauty.fr"
		})).Return(nil)

		u, err := newTestService(users).EnsureAdmin(context.Background(), "Admin@ambeauty.fr", "admin123")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, u.Role)
	})

	t.Run("existing admin is untouched", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("GetByEmail", mock.Anything, "admin@ambeauty.fr").
			Return(&domain.User{ID: 1, Role: domain.RoleAdmin, PasswordHash: hashed(t, "admin123")}, nil)

		_, err := newTestService(users).EnsureAdmin(context.Background(), "admin@ambeauty.fr", "admin123")
		require.NoError(t, err)
		users.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("promotes existing client", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("GetByEmail", mock.Anything, "admin@ambeauty.fr").
			Return(&domain.User{ID: 2, Role: domain.RoleClient, PasswordHash: hashed(t, "other1")}, nil)
		users.On("UpdateCredentials", mock.Anything, int64(2), mock.AnythingOfType("string"), domain.RoleAdmin).Return(nil)

		u, err := newTestService(users).EnsureAdmin(context.Background(), "admin@ambeauty.fr", "admin123")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, u.Role)
		users.AssertExpectations(t)
	})
}
