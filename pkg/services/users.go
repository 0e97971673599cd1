package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

// CreateUserInput carries the fields for an administratively created user.
type CreateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
	Role     string
}

// UserPatch is a partial user update. Role and status changes are Admin-only.
type UserPatch struct {
	Name    *string
	Surname *string
	Email   *string
	Role    *string
	Status  *string
}

// UserService manages accounts.
type UserService interface {
	Create(ctx context.Context, actor models.Actor, input CreateUserInput) (*models.User, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch UserPatch) (*models.User, error)
	Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, actor models.Actor) ([]*models.User, error)
}

// userService implements UserService.
type userService struct {
	users    repositories.UserRepository
	activity ActivityService
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(users repositories.UserRepository, activity ActivityService, logger *zap.Logger) UserService {
	return &userService{
		users:    users,
		activity: activity,
		logger:   logger,
	}
}

// Create creates a user. Manager/Admin only; Managers may only create
// Employee accounts.
func (s *userService) Create(ctx context.Context, actor models.Actor, input CreateUserInput) (*models.User, error) {
	if !actor.IsManagerial() {
		return nil, apperrors.ErrForbidden
	}

	if actor.Role == models.RoleManager && input.Role != models.RoleEmployee {
		return nil, fmt.Errorf("%w: managers can only create Employee users", apperrors.ErrForbidden)
	}

	if err := validateUserFields(input.Name, input.Surname, input.Email, input.Password); err != nil {
		return nil, err
	}
	if !models.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: invalid role", apperrors.ErrValidation)
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
		Role:     input.Role,
		Status:   models.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: user already exists with this email", apperrors.ErrValidation)
		}
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "User Created",
		fmt.Sprintf("Created new user: %s %s (%s)", user.Name, user.Surname, user.Role),
		models.ActivitySuccess)

	return user, nil
}

// Update applies a partial update. Users may edit their own profile; only
// Admin may edit others or change role/status.
func (s *userService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch UserPatch) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwnProfile := actor.ID == id
	if !isOwnProfile && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !actor.IsAdmin() && (patch.Role != nil || patch.Status != nil) {
		return nil, fmt.Errorf("%w: only admin can change role or status", apperrors.ErrForbidden)
	}

	if patch.Name != nil {
		if len(*patch.Name) < 2 || len(*patch.Name) > 50 {
			return nil, fmt.Errorf("%w: name must be 2-50 characters", apperrors.ErrValidation)
		}
		user.Name = *patch.Name
	}
	if patch.Surname != nil {
		if len(*patch.Surname) < 2 || len(*patch.Surname) > 50 {
			return nil, fmt.Errorf("%w: surname must be 2-50 characters", apperrors.ErrValidation)
		}
		user.Surname = *patch.Surname
	}
	if patch.Email != nil {
		if !validEmail(*patch.Email) {
			return nil, fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
		}
		user.Email = *patch.Email
	}
	if patch.Role != nil {
		if !models.IsValidRole(*patch.Role) {
			return nil, fmt.Errorf("%w: invalid role", apperrors.ErrValidation)
		}
		user.Role = *patch.Role
	}
	if patch.Status != nil {
		if !models.IsValidUserStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: invalid status", apperrors.ErrValidation)
		}
		user.Status = *patch.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email already in use", apperrors.ErrValidation)
		}
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "User Updated",
		fmt.Sprintf("Updated user: %s %s", user.Name, user.Surname), models.ActivityInfo)

	return user, nil
}

// Delete removes a user. Admin only.
func (s *userService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, actor.ID, "User Deleted",
		fmt.Sprintf("Deleted user: %s %s", user.Name, user.Surname), models.ActivityWarning)

	return nil
}

// Get retrieves a user. Employees may only view their own account.
func (s *userService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error) {
	if actor.IsEmployee() && actor.ID != id {
		return nil, apperrors.ErrForbidden
	}
	return s.users.GetByID(ctx, id)
}

// List retrieves all users. Manager/Admin only.
func (s *userService) List(ctx context.Context, actor models.Actor) ([]*models.User, error) {
	if !actor.IsManagerial() {
		return nil, apperrors.ErrForbidden
	}
	return s.users.List(ctx)
}
