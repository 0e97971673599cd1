package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

// mockUserRepository is an in-memory UserRepository for testing.
type mockUserRepository struct {
	users []*models.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrConflict
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return m.users, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = user
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, when time.Time) error {
	for _, u := range m.users {
		if u.ID == id {
			t := when
			u.LastLogin = &t
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockUserRepository) GetActiveEmployees(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	var result []*models.User
	for _, id := range ids {
		for _, u := range m.users {
			if u.ID == id && u.IsActiveEmployee() {
				result = append(result, u)
			}
		}
	}
	return result, nil
}

// mockProjectRepository is an in-memory ProjectRepository for testing.
// UpdateProgress calls are recorded so tests can assert on re-aggregation.
type mockProjectRepository struct {
	projects        []*models.Project
	progressUpdates []uuid.UUID
}

func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}
	m.projects = append(m.projects, project)
	return nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	return m.projects, nil
}

func (m *mockProjectRepository) ListByEmployee(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	var result []*models.Project
	for _, p := range m.projects {
		if p.HasEmployee(userID) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	for i, p := range m.projects {
		if p.ID == project.ID {
			m.projects[i] = project
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockProjectRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status string) error {
	m.progressUpdates = append(m.progressUpdates, id)
	for _, p := range m.projects {
		if p.ID == id {
			p.Progress = progress
			p.Status = status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockProjectRepository) AssignEmployee(ctx context.Context, projectID, userID uuid.UUID) error {
	for _, p := range m.projects {
		if p.ID == projectID {
			if p.HasEmployee(userID) {
				return apperrors.ErrConflict
			}
			p.AssignedEmployees = append(p.AssignedEmployees, userID)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, p := range m.projects {
		if p.ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// mockTaskRepository is an in-memory TaskRepository for testing.
type mockTaskRepository struct {
	tasks []*models.Task
}

func (m *mockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockTaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	return m.tasks, nil
}

func (m *mockTaskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	var result []*models.Task
	for _, t := range m.tasks {
		if t.IsAssignee(userID) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	var result []*models.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *models.Task) error {
	for i, t := range m.tasks {
		if t.ID == task.ID {
			m.tasks[i] = task
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockTaskRepository) GetProgressByProject(ctx context.Context, projectID uuid.UUID) ([]int, error) {
	var values []int
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			values = append(values, t.Progress)
		}
	}
	return values, nil
}

// mockHelpRequestRepository is an in-memory HelpRequestRepository that
// mirrors the store's guarantees: one active request per task, and
// transitions only from the expected state.
type mockHelpRequestRepository struct {
	requests []*models.HelpRequest
}

func (m *mockHelpRequestRepository) Create(ctx context.Context, request *models.HelpRequest) error {
	for _, r := range m.requests {
		if r.TaskID == request.TaskID && r.IsActive() {
			return apperrors.ErrConflict
		}
	}
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	request.Status = models.HelpRequestPending
	m.requests = append(m.requests, request)
	return nil
}

func (m *mockHelpRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HelpRequest, error) {
	for _, r := range m.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockHelpRequestRepository) List(ctx context.Context) ([]*models.HelpRequest, error) {
	return m.requests, nil
}

func (m *mockHelpRequestRepository) ListVisibleTo(ctx context.Context, userID uuid.UUID) ([]*models.HelpRequest, error) {
	var result []*models.HelpRequest
	for _, r := range m.requests {
		visible := r.RequestedBy == userID ||
			(r.HelpedBy != nil && *r.HelpedBy == userID) ||
			r.Status == models.HelpRequestPending
		if visible {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockHelpRequestRepository) Accept(ctx context.Context, id, helperID uuid.UUID) error {
	for _, r := range m.requests {
		if r.ID == id {
			if r.Status != models.HelpRequestPending {
				return apperrors.ErrConflict
			}
			helper := helperID
			r.Status = models.HelpRequestAccepted
			r.HelpedBy = &helper
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockHelpRequestRepository) Complete(ctx context.Context, id uuid.UUID) error {
	for _, r := range m.requests {
		if r.ID == id {
			if r.Status != models.HelpRequestAccepted {
				return apperrors.ErrConflict
			}
			r.Status = models.HelpRequestCompleted
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockHelpRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, r := range m.requests {
		if r.ID == id {
			m.requests = append(m.requests[:i], m.requests[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// mockActivityLogRepository collects audit entries for assertions.
type mockActivityLogRepository struct {
	entries []*models.ActivityLog
}

func (m *mockActivityLogRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityLogRepository) List(ctx context.Context, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error) {
	var result []*models.ActivityLog
	for _, e := range m.entries {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}
