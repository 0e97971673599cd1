package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
)

func newAuthServiceFixture(t *testing.T) (AuthService, *mockUserRepository) {
	t.Helper()

	users := &mockUserRepository{}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	activity := NewActivityService(&mockActivityLogRepository{}, zap.NewNop())

	return NewAuthService(users, tokens, activity, zap.NewNop()), users
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:     "Mehmet",
		Surname:  "Demir",
		Email:    "mehmet@ofis.local",
		Password: "gizli123",
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, users := newAuthServiceFixture(t)

	session, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.Equal(t, models.RoleEmployee, session.User.Role, "self-registration always yields an Employee")
	assert.Equal(t, models.UserStatusActive, session.User.Status)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "/employee-dashboard", session.DashboardURL)

	stored, err := users.GetByEmail(context.Background(), "mehmet@ofis.local")
	require.NoError(t, err)
	assert.NotEqual(t, "gizli123", stored.Password, "password must be stored hashed")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceFixture(t)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_Register_InvalidFields(t *testing.T) {
	svc, _ := newAuthServiceFixture(t)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short name", func(in *RegisterInput) { in.Name = "M" }},
		{"short surname", func(in *RegisterInput) { in.Surname = "D" }},
		{"bad email", func(in *RegisterInput) { in.Email = "mehmet" }},
		{"short password", func(in *RegisterInput) { in.Password = "123" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegisterInput()
			tt.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, users := newAuthServiceFixture(t)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "mehmet@ofis.local", "gizli123")
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "/employee-dashboard", session.DashboardURL)
	require.NotNil(t, session.User.LastLogin)

	stored, err := users.GetByEmail(context.Background(), "mehmet@ofis.local")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newAuthServiceFixture(t)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "mehmet@ofis.local", "yanlis123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newAuthServiceFixture(t)

	_, err := svc.Login(context.Background(), "yok@ofis.local", "gizli123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	svc, users := newAuthServiceFixture(t)

	session, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), session.User.ID)
	require.NoError(t, err)
	stored.Status = models.UserStatusInactive

	_, err = svc.Login(context.Background(), "mehmet@ofis.local", "gizli123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_DashboardURLPerRole(t *testing.T) {
	assert.Equal(t, "/admin-dashboard", dashboardURL(models.RoleAdmin))
	assert.Equal(t, "/manager-dashboard", dashboardURL(models.RoleManager))
	assert.Equal(t, "/employee-dashboard", dashboardURL(models.RoleEmployee))
}
