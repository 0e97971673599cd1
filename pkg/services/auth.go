package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

// RegisterInput carries the self-service registration fields. Registered
// accounts always start as active Employees.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// Session is the result of a successful register or login.
type Session struct {
	User         *models.User
	Token        string
	DashboardURL string
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

// authService implements AuthService.
type authService struct {
	users    repositories.UserRepository
	tokens   *auth.TokenService
	activity ActivityService
	logger   *zap.Logger
}

// NewAuthService creates a new auth service with dependencies.
func NewAuthService(
	users repositories.UserRepository,
	tokens *auth.TokenService,
	activity ActivityService,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		activity: activity,
		logger:   logger,
	}
}

// Register creates an Employee account and returns a fresh session.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := validateUserFields(input.Name, input.Surname, input.Email, input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Surname:  input.Surname,
		Email:    input.Email,
		Password: hash,
		Role:     models.RoleEmployee,
		Status:   models.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: user already exists with this email", apperrors.ErrValidation)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, user.ID, "User Registration",
		fmt.Sprintf("New user registered: %s %s", user.Name, user.Surname),
		models.ActivitySuccess)

	return &Session{
		User:         user,
		Token:        token,
		DashboardURL: dashboardURL(user.Role),
	}, nil
}

// Login verifies credentials, rejects inactive accounts, stamps the last
// login time, and returns a fresh session.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrUnauthorized)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the stamp is informational.
		s.logger.Warn("Failed to update last login",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, user.ID, "User Login",
		fmt.Sprintf("%s %s logged in", user.Name, user.Surname), models.ActivityInfo)

	return &Session{
		User:         user,
		Token:        token,
		DashboardURL: dashboardURL(user.Role),
	}, nil
}

// dashboardURL picks the role-appropriate landing page.
func dashboardURL(role string) string {
	switch role {
	case models.RoleAdmin:
		return "/admin-dashboard"
	case models.RoleManager:
		return "/manager-dashboard"
	default:
		return "/employee-dashboard"
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(email string) bool {
	return len(email) <= 100 && emailPattern.MatchString(email)
}

func validateUserFields(name, surname, email, password string) error {
	if len(name) < 2 || len(name) > 50 {
		return fmt.Errorf("%w: name must be 2-50 characters", apperrors.ErrValidation)
	}
	if len(surname) < 2 || len(surname) > 50 {
		return fmt.Errorf("%w: surname must be 2-50 characters", apperrors.ErrValidation)
	}
	if !validEmail(email) {
		return fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	return nil
}
