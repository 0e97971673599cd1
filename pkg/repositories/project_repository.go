package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/database"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
)

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByEmployee(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	// UpdateProgress writes the aggregated progress/status pair.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status string) error
	// AssignEmployee adds a user to the project's member set.
	// Returns ErrConflict if the user is already assigned.
	AssignEmployee(ctx context.Context, projectID, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `p.id, p.name, p.description, p.deadline, p.progress, p.status, p.created_by, p.created_at, p.updated_at`

// Create inserts a project together with its initial member set.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO projects (name, description, deadline, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, progress, status, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		project.Name, project.Description, project.Deadline, project.CreatedBy,
	).Scan(&project.ID, &project.Progress, &project.Status, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	for _, userID := range project.AssignedEmployees {
		_, err = tx.Exec(ctx,
			`INSERT INTO project_employees (project_id, user_id) VALUES ($1, $2)`,
			project.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to assign employee: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a project with its assigned employee ids.
func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1`

	var p models.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Deadline, &p.Progress, &p.Status,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := r.loadEmployees(ctx, []*models.Project{&p}); err != nil {
		return nil, err
	}

	return &p, nil
}

// List retrieves all projects, newest first.
func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p ORDER BY p.created_at DESC`
	return r.queryProjects(ctx, query)
}

// ListByEmployee retrieves the projects a user is assigned to, newest first.
func (r *projectRepository) ListByEmployee(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projects p
		JOIN project_employees pe ON pe.project_id = p.id
		WHERE pe.user_id = $1
		ORDER BY p.created_at DESC`
	return r.queryProjects(ctx, query, userID)
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Deadline, &p.Progress,
			&p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadEmployees(ctx, projects); err != nil {
		return nil, err
	}

	return projects, nil
}

// loadEmployees fills AssignedEmployees for the given projects in one query.
func (r *projectRepository) loadEmployees(ctx context.Context, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(projects))
	byID := make(map[uuid.UUID]*models.Project, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		byID[p.ID] = p
		p.AssignedEmployees = []uuid.UUID{}
	}

	rows, err := r.db.Query(ctx,
		`SELECT project_id, user_id FROM project_employees WHERE project_id = ANY($1) ORDER BY assigned_at`,
		ids)
	if err != nil {
		return fmt.Errorf("failed to load project employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, userID uuid.UUID
		if err := rows.Scan(&projectID, &userID); err != nil {
			return fmt.Errorf("failed to scan project employee: %w", err)
		}
		if p, ok := byID[projectID]; ok {
			p.AssignedEmployees = append(p.AssignedEmployees, userID)
		}
	}

	return rows.Err()
}

// Update persists mutable project fields, including explicit Admin/Manager
// status and progress overrides.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, deadline = $3, progress = $4, status = $5, updated_at = now()
		WHERE id = $6`

	result, err := r.db.Exec(ctx, query,
		project.Name, project.Description, project.Deadline,
		project.Progress, project.Status, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdateProgress writes the aggregated progress/status pair back to the project.
func (r *projectRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, status string) error {
	query := `UPDATE projects SET progress = $1, status = $2, updated_at = now() WHERE id = $3`

	result, err := r.db.Exec(ctx, query, progress, status, id)
	if err != nil {
		return fmt.Errorf("failed to update project progress: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// AssignEmployee adds a user to the project's member set.
func (r *projectRepository) AssignEmployee(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO project_employees (project_id, user_id) VALUES ($1, $2)`,
		projectID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to assign employee: %w", err)
	}

	return nil
}

// Delete removes a project. Child tasks go with it via FK cascade.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
