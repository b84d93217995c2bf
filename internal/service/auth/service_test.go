package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maintcore/cmms-backend-go/internal/domain/auth"
	"github.com/maintcore/cmms-backend-go/internal/domain/user"
	"github.com/maintcore/cmms-backend-go/internal/pkg/jwt"
)

const (
	testSecret    = "test-secret-key-for-jwt"
	testAccessExp = "1h"
)

type fakeUserRepo struct {
	byEmail map[string]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) GetByID(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepo) ListByDepartmentIDs(_ context.Context, _ []string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, _ user.Role) (int64, error) { return 0, nil }

func newLoginFixture(t *testing.T) auth.Service {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{byEmail: map[string]user.User{
		"admin@maintcore.test": {
			ID:           "u1",
			Email:        "admin@maintcore.test",
			PasswordHash: string(hash),
			Role:         user.RoleAdmin,
		},
	}}
	return NewAuthService(repo, jwt.NewJWTService(testSecret, testAccessExp))
}

func TestLoginSuccess(t *testing.T) {
	svc := newLoginFixture(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "admin@maintcore.test",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, string(user.RoleAdmin), resp.Role)
	assert.Greater(t, resp.ExpiresAt, int64(0))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newLoginFixture(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "admin@maintcore.test",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newLoginFixture(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ghost@maintcore.test",
		Password: "password123",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "unknown email is indistinguishable from a bad password")
}

func TestLoginValidatesRequest(t *testing.T) {
	svc := newLoginFixture(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
