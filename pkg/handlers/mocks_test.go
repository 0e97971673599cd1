package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
	"github.com/ofistakip/ofistakip-engine/pkg/services"
)

// stubTaskService delegates to optional function fields.
type stubTaskService struct {
	createFn   func(ctx context.Context, actor models.Actor, input services.CreateTaskInput) (*models.Task, error)
	updateFn   func(ctx context.Context, actor models.Actor, id uuid.UUID, patch services.TaskPatch) (*models.Task, error)
	deleteFn   func(ctx context.Context, actor models.Actor, id uuid.UUID) error
	getFn      func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Task, error)
	listFn     func(ctx context.Context, actor models.Actor) ([]*models.Task, error)
	listMineFn func(ctx context.Context, actor models.Actor) ([]*models.Task, error)
}

func (s *stubTaskService) Create(ctx context.Context, actor models.Actor, input services.CreateTaskInput) (*models.Task, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubTaskService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch services.TaskPatch) (*models.Task, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubTaskService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubTaskService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Task, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTaskService) List(ctx context.Context, actor models.Actor) ([]*models.Task, error) {
	return s.listFn(ctx, actor)
}

func (s *stubTaskService) ListMine(ctx context.Context, actor models.Actor) ([]*models.Task, error) {
	return s.listMineFn(ctx, actor)
}

// stubHelpRequestService delegates to optional function fields.
type stubHelpRequestService struct {
	createFn   func(ctx context.Context, actor models.Actor, taskID uuid.UUID, message string) (*models.HelpRequest, error)
	acceptFn   func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error)
	completeFn func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error)
	deleteFn   func(ctx context.Context, actor models.Actor, id uuid.UUID) error
	getFn      func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error)
	listFn     func(ctx context.Context, actor models.Actor) ([]*models.HelpRequest, error)
}

func (s *stubHelpRequestService) Create(ctx context.Context, actor models.Actor, taskID uuid.UUID, message string) (*models.HelpRequest, error) {
	return s.createFn(ctx, actor, taskID, message)
}

func (s *stubHelpRequestService) Accept(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
	return s.acceptFn(ctx, actor, id)
}

func (s *stubHelpRequestService) Complete(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
	return s.completeFn(ctx, actor, id)
}

func (s *stubHelpRequestService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubHelpRequestService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubHelpRequestService) List(ctx context.Context, actor models.Actor) ([]*models.HelpRequest, error) {
	return s.listFn(ctx, actor)
}

// stubAuthService delegates to optional function fields.
type stubAuthService struct {
	registerFn func(ctx context.Context, input services.RegisterInput) (*services.Session, error)
	loginFn    func(ctx context.Context, email, password string) (*services.Session, error)
}

func (s *stubAuthService) Register(ctx context.Context, input services.RegisterInput) (*services.Session, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*services.Session, error) {
	return s.loginFn(ctx, email, password)
}

// stubUserService delegates to optional function fields.
type stubUserService struct {
	createFn func(ctx context.Context, actor models.Actor, input services.CreateUserInput) (*models.User, error)
	updateFn func(ctx context.Context, actor models.Actor, id uuid.UUID, patch services.UserPatch) (*models.User, error)
	deleteFn func(ctx context.Context, actor models.Actor, id uuid.UUID) error
	getFn    func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error)
	listFn   func(ctx context.Context, actor models.Actor) ([]*models.User, error)
}

func (s *stubUserService) Create(ctx context.Context, actor models.Actor, input services.CreateUserInput) (*models.User, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubUserService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch services.UserPatch) (*models.User, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubUserService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubUserService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) List(ctx context.Context, actor models.Actor) ([]*models.User, error) {
	return s.listFn(ctx, actor)
}

// stubActivityService delegates to optional function fields.
type stubActivityService struct {
	listFn func(ctx context.Context, actor models.Actor, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error)
}

func (s *stubActivityService) Record(ctx context.Context, userID uuid.UUID, action, details, entryType string) {
}

func (s *stubActivityService) List(ctx context.Context, actor models.Actor, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error) {
	return s.listFn(ctx, actor, filter)
}
