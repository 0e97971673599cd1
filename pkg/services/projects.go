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

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Name              string
	Description       string
	Deadline          time.Time
	AssignedEmployees []uuid.UUID
}

// ProjectPatch is a partial project update. Status and Progress are the
// explicit Admin/Manager overrides; the next task-driven recomputation
// replaces them.
type ProjectPatch struct {
	Name        *string
	Description *string
	Deadline    *time.Time
	Status      *string
	Progress    *int
}

// ProjectService manages projects and their member sets.
type ProjectService interface {
	Create(ctx context.Context, actor models.Actor, input CreateProjectInput) (*models.Project, error)
	Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch ProjectPatch) (*models.Project, error)
	AssignEmployee(ctx context.Context, actor models.Actor, projectID, employeeID uuid.UUID) error
	Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, actor models.Actor) ([]*models.Project, error)
}

// projectService implements ProjectService.
type projectService struct {
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	activity ActivityService
	logger   *zap.Logger
}

// NewProjectService creates a new project service with dependencies.
func NewProjectService(
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	activity ActivityService,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		projects: projects,
		users:    users,
		activity: activity,
		logger:   logger,
	}
}

// Create creates a project. Manager/Admin only. Initial members must be
// active Employees.
func (s *projectService) Create(ctx context.Context, actor models.Actor, input CreateProjectInput) (*models.Project, error) {
	if !actor.IsManagerial() {
		return nil, apperrors.ErrForbidden
	}

	if len(input.Name) < 2 || len(input.Name) > 100 {
		return nil, fmt.Errorf("%w: name must be 2-100 characters", apperrors.ErrValidation)
	}
	if len(input.Description) < 10 || len(input.Description) > 1000 {
		return nil, fmt.Errorf("%w: description must be 10-1000 characters", apperrors.ErrValidation)
	}
	if input.Deadline.IsZero() {
		return nil, fmt.Errorf("%w: deadline is required", apperrors.ErrValidation)
	}

	if len(input.AssignedEmployees) > 0 {
		employees, err := s.users.GetActiveEmployees(ctx, input.AssignedEmployees)
		if err != nil {
			return nil, err
		}
		if len(employees) != len(input.AssignedEmployees) {
			return nil, fmt.Errorf("%w: some assigned employees are invalid", apperrors.ErrValidation)
		}
	}

	project := &models.Project{
		Name:              input.Name,
		Description:       input.Description,
		Deadline:          input.Deadline,
		AssignedEmployees: input.AssignedEmployees,
		CreatedBy:         actor.ID,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Project Created",
		fmt.Sprintf("Created new project: %s", project.Name), models.ActivitySuccess)

	return project, nil
}

// Update applies a partial update. Manager/Admin only.
func (s *projectService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, patch ProjectPatch) (*models.Project, error) {
	if !actor.IsManagerial() {
		return nil, apperrors.ErrForbidden
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if len(*patch.Name) < 2 || len(*patch.Name) > 100 {
			return nil, fmt.Errorf("%w: name must be 2-100 characters", apperrors.ErrValidation)
		}
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		if len(*patch.Description) < 10 || len(*patch.Description) > 1000 {
			return nil, fmt.Errorf("%w: description must be 10-1000 characters", apperrors.ErrValidation)
		}
		project.Description = *patch.Description
	}
	if patch.Deadline != nil {
		project.Deadline = *patch.Deadline
	}
	if patch.Status != nil {
		if !models.IsValidProjectStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: invalid status", apperrors.ErrValidation)
		}
		project.Status = *patch.Status
	}
	if patch.Progress != nil {
		if !models.IsValidProgress(*patch.Progress) {
			return nil, fmt.Errorf("%w: progress must be between 0 and 100", apperrors.ErrValidation)
		}
		project.Progress = *patch.Progress
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Project Updated",
		fmt.Sprintf("Updated project: %s", project.Name), models.ActivityInfo)

	return project, nil
}

// AssignEmployee adds an active Employee to the project's member set.
// Manager/Admin only.
func (s *projectService) AssignEmployee(ctx context.Context, actor models.Actor, projectID, employeeID uuid.UUID) error {
	if !actor.IsManagerial() {
		return apperrors.ErrForbidden
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	employee, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !employee.IsActiveEmployee() {
		return fmt.Errorf("%w: employee not found or inactive", apperrors.ErrNotFound)
	}

	if err := s.projects.AssignEmployee(ctx, projectID, employeeID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: employee already assigned to this project", apperrors.ErrConflict)
		}
		return err
	}

	s.activity.Record(ctx, actor.ID, "Employee Assigned",
		fmt.Sprintf("Assigned %s %s to project: %s", employee.Name, employee.Surname, project.Name),
		models.ActivityInfo)

	return nil
}

// Delete removes a project; its tasks are deleted with it. Manager/Admin only.
func (s *projectService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !actor.IsManagerial() {
		return apperrors.ErrForbidden
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, actor.ID, "Project Deleted",
		fmt.Sprintf("Deleted project: %s", project.Name), models.ActivityWarning)

	return nil
}

// Get retrieves a project. Employees may only see projects they belong to.
func (s *projectService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.IsEmployee() && !project.HasEmployee(actor.ID) {
		return nil, apperrors.ErrForbidden
	}

	return project, nil
}

// List retrieves projects visible to the actor.
func (s *projectService) List(ctx context.Context, actor models.Actor) ([]*models.Project, error) {
	if actor.IsEmployee() {
		return s.projects.ListByEmployee(ctx, actor.ID)
	}
	return s.projects.List(ctx)
}
