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

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GetProgressByProject returns the progress values of every task in the
	// project, the aggregator's input.
	GetProgressByProject(ctx context.Context, projectID uuid.UUID) ([]int, error)
}

// taskRepository implements TaskRepository using PostgreSQL.
type taskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *database.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `t.id, t.title, t.description, t.project_id, t.assigned_by, t.priority, t.status, t.progress, t.deadline, t.created_at, t.updated_at`

// Create inserts a task together with its assignee set.
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO tasks (title, description, project_id, assigned_by, priority, status, progress, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		task.Title, task.Description, task.ProjectID, task.AssignedBy,
		task.Priority, task.Status, task.Progress, task.Deadline,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	for _, userID := range task.AssignedTo {
		_, err = tx.Exec(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2)`,
			task.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to add assignee: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a task with its assignee ids.
func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`

	var t models.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedBy,
		&t.Priority, &t.Status, &t.Progress, &t.Deadline, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := r.loadAssignees(ctx, []*models.Task{&t}); err != nil {
		return nil, err
	}

	return &t, nil
}

// List retrieves all tasks ordered by nearest deadline.
func (r *taskRepository) List(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t ORDER BY t.deadline`
	return r.queryTasks(ctx, query)
}

// ListByAssignee retrieves the tasks assigned to a user, by nearest deadline.
func (r *taskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t
		JOIN task_assignees ta ON ta.task_id = t.id
		WHERE ta.user_id = $1
		ORDER BY t.deadline`
	return r.queryTasks(ctx, query, userID)
}

// ListByProject retrieves a project's tasks in creation order.
func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.project_id = $1 ORDER BY t.created_at`
	return r.queryTasks(ctx, query, projectID)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedBy,
			&t.Priority, &t.Status, &t.Progress, &t.Deadline, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAssignees(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// loadAssignees fills AssignedTo for the given tasks in one query.
func (r *taskRepository) loadAssignees(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(tasks))
	byID := make(map[uuid.UUID]*models.Task, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = t
		t.AssignedTo = []uuid.UUID{}
	}

	rows, err := r.db.Query(ctx,
		`SELECT task_id, user_id FROM task_assignees WHERE task_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to load assignees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, userID uuid.UUID
		if err := rows.Scan(&taskID, &userID); err != nil {
			return fmt.Errorf("failed to scan assignee: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.AssignedTo = append(t.AssignedTo, userID)
		}
	}

	return rows.Err()
}

// Update persists the task row and replaces its assignee set.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, status = $4, progress = $5, deadline = $6, updated_at = now()
		WHERE id = $7`

	result, err := tx.Exec(ctx, query,
		task.Title, task.Description, task.Priority, task.Status,
		task.Progress, task.Deadline, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, task.ID); err != nil {
		return fmt.Errorf("failed to clear assignees: %w", err)
	}
	for _, userID := range task.AssignedTo {
		_, err = tx.Exec(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2)`,
			task.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to add assignee: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// GetProgressByProject returns progress values for every task in the project.
func (r *taskRepository) GetProgressByProject(ctx context.Context, projectID uuid.UUID) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT progress FROM tasks WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task progress: %w", err)
	}
	defer rows.Close()

	var values []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		values = append(values, p)
	}

	return values, rows.Err()
}
