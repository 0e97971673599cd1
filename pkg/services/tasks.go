package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

// CreateTaskInput carries the fields for a new task. AssignedBy comes from
// the actor, never from the caller.
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   uuid.UUID
	AssignedTo  []uuid.UUID
	Priority    string
	Deadline    time.Time
}

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Progress    *int
	Deadline    *time.Time
}

// touchesProgress reports whether applying the patch requires re-aggregating
// the owning project.
func (p TaskPatch) touchesProgress() bool {
	return p.Progress != nil || p.Status != nil
}

// onlyProgressAndStatus reports whether the patch stays within the fields an
// employee may change.
func (p TaskPatch) onlyProgressAndStatus() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Deadline == nil
}

// TaskService governs the task lifecycle: permission checks, field-level
// restrictions, and synchronous re-aggregation of the owning project.
type TaskService interface {
	Create(ctx context.Context, actor models.Actor, input CreateTaskInput) (*models.Task, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, actor models.Actor) ([]*models.Task, error)
	ListMine(ctx context.Context, actor models.Actor) ([]*models.Task, error)
}

// taskService implements TaskService.
type taskService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	progress ProgressService
	activity ActivityService
	logger   *zap.Logger
}

// NewTaskService creates a new task service with dependencies.
func NewTaskService(
	tasks repositories.TaskRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	progress ProgressService,
	activity ActivityService,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
		progress: progress,
		activity: activity,
		logger:   logger,
	}
}

// Create creates a task, assigns it, and re-aggregates the owning project.
// Manager/Admin only. Every assignee must be an active Employee who is
// already a member of the project; membership is never granted implicitly.
func (s *taskService) Create(ctx context.Context, actor models.Actor, input CreateTaskInput) (*models.Task, error) {
	if !actor.IsManagerial() {
		return nil, apperrors.ErrForbidden
	}

	if err := validateTaskFields(input); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project does not exist", apperrors.ErrValidation)
		}
		return nil, err
	}

	employees, err := s.users.GetActiveEmployees(ctx, input.AssignedTo)
	if err != nil {
		return nil, err
	}
	if len(employees) != len(input.AssignedTo) {
		return nil, fmt.Errorf("%w: some assigned users not found or inactive", apperrors.ErrValidation)
	}

	for _, userID := range input.AssignedTo {
		if !project.HasEmployee(userID) {
			return nil, fmt.Errorf("%w: some users are not assigned to this project", apperrors.ErrValidation)
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		AssignedBy:  actor.ID,
		Priority:    input.Priority,
		Status:      models.TaskStatusPending,
		Progress:    0,
		Deadline:    input.Deadline,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	// A new task at progress 0 can shift the project's mean.
	if _, err := s.progress.Recompute(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Task Created",
		fmt.Sprintf("Created task: %s", task.Title), models.ActivitySuccess)

	return task, nil
}

// Update applies a partial update. Assignees may change only progress and
// status; Manager/Admin may change anything. Re-aggregates the owning
// project when progress or status changed.
func (s *taskService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch TaskPatch) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsManagerial() && !task.IsAssignee(actor.ID) {
		return nil, apperrors.ErrForbidden
	}

	if actor.IsEmployee() && !patch.onlyProgressAndStatus() {
		return nil, fmt.Errorf("%w: employees can only update progress and status", apperrors.ErrForbidden)
	}

	if err := applyTaskPatch(task, patch); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if patch.touchesProgress() {
		if _, err := s.progress.Recompute(ctx, task.ProjectID); err != nil {
			return nil, err
		}
	}

	s.activity.Record(ctx, actor.ID, "Task Updated",
		fmt.Sprintf("Updated task: %s", task.Title), models.ActivityInfo)

	return task, nil
}

// Delete removes a task and re-aggregates the owning project. Manager/Admin only.
func (s *taskService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !actor.IsManagerial() {
		return apperrors.ErrForbidden
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	if _, err := s.progress.Recompute(ctx, task.ProjectID); err != nil {
		return err
	}

	s.activity.Record(ctx, actor.ID, "Task Deleted",
		fmt.Sprintf("Deleted task: %s", task.Title), models.ActivityWarning)

	return nil
}

// Get retrieves a task. Employees may only see tasks assigned to them.
func (s *taskService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.IsEmployee() && !task.IsAssignee(actor.ID) {
		return nil, apperrors.ErrForbidden
	}

	return task, nil
}

// List retrieves tasks visible to the actor: everything for Manager/Admin,
// assigned tasks for employees.
func (s *taskService) List(ctx context.Context, actor models.Actor) ([]*models.Task, error) {
	if actor.IsEmployee() {
		return s.tasks.ListByAssignee(ctx, actor.ID)
	}
	return s.tasks.List(ctx)
}

// ListMine retrieves the actor's assigned tasks.
func (s *taskService) ListMine(ctx context.Context, actor models.Actor) ([]*models.Task, error) {
	return s.tasks.ListByAssignee(ctx, actor.ID)
}

func validateTaskFields(input CreateTaskInput) error {
	if len(input.Title) < 5 || len(input.Title) > 200 {
		return fmt.Errorf("%w: title must be 5-200 characters", apperrors.ErrValidation)
	}
	if len(input.Description) < 10 || len(input.Description) > 1000 {
		return fmt.Errorf("%w: description must be 10-1000 characters", apperrors.ErrValidation)
	}
	if !models.IsValidPriority(input.Priority) {
		return fmt.Errorf("%w: invalid priority", apperrors.ErrValidation)
	}
	if len(input.AssignedTo) == 0 {
		return fmt.Errorf("%w: at least one assignee is required", apperrors.ErrValidation)
	}
	if input.Deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", apperrors.ErrValidation)
	}
	return nil
}

func applyTaskPatch(task *models.Task, patch TaskPatch) error {
	if patch.Title != nil {
		if len(*patch.Title) < 5 || len(*patch.Title) > 200 {
			return fmt.Errorf("%w: title must be 5-200 characters", apperrors.ErrValidation)
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		if len(*patch.Description) < 10 || len(*patch.Description) > 1000 {
			return fmt.Errorf("%w: description must be 10-1000 characters", apperrors.ErrValidation)
		}
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !models.IsValidPriority(*patch.Priority) {
			return fmt.Errorf("%w: invalid priority", apperrors.ErrValidation)
		}
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		if !models.IsValidTaskStatus(*patch.Status) {
			return fmt.Errorf("%w: invalid status", apperrors.ErrValidation)
		}
		// Status is informational and not cross-checked against progress;
		// reopening a completed task is allowed.
		task.Status = *patch.Status
	}
	if patch.Progress != nil {
		if !models.IsValidProgress(*patch.Progress) {
			return fmt.Errorf("%w: progress must be between 0 and 100", apperrors.ErrValidation)
		}
		task.Progress = *patch.Progress
	}
	if patch.Deadline != nil {
		task.Deadline = *patch.Deadline
	}
	return nil
}
