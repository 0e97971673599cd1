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

// HelpRequestRepository defines the interface for help request data access.
// State transitions are conditional updates: the WHERE clause carries the
// expected current status, so concurrent transitions lose cleanly with
// ErrConflict instead of clobbering each other.
type HelpRequestRepository interface {
	// Create inserts a new pending request. Returns ErrConflict if the task
	// already has an active request (enforced by a partial unique index).
	Create(ctx context.Context, request *models.HelpRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.HelpRequest, error)
	List(ctx context.Context) ([]*models.HelpRequest, error)
	// ListVisibleTo returns requests the user made, helps with, or could
	// pick up (still pending).
	ListVisibleTo(ctx context.Context, userID uuid.UUID) ([]*models.HelpRequest, error)
	// Accept moves Bekliyor → Kabul Edildi and records the helper.
	Accept(ctx context.Context, id, helperID uuid.UUID) error
	// Complete moves Kabul Edildi → Tamamlandı.
	Complete(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// helpRequestRepository implements HelpRequestRepository using PostgreSQL.
type helpRequestRepository struct {
	db *database.DB
}

// NewHelpRequestRepository creates a new help request repository.
func NewHelpRequestRepository(db *database.DB) HelpRequestRepository {
	return &helpRequestRepository{db: db}
}

const helpRequestColumns = `id, task_id, requested_by, helped_by, status, message, created_at, updated_at`

func scanHelpRequest(row pgx.Row) (*models.HelpRequest, error) {
	var h models.HelpRequest
	var message *string
	err := row.Scan(&h.ID, &h.TaskID, &h.RequestedBy, &h.HelpedBy,
		&h.Status, &message, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan help request: %w", err)
	}
	if message != nil {
		h.Message = *message
	}
	return &h, nil
}

// Create inserts a pending help request. The partial unique index on active
// requests makes the at-most-one-active-per-task check atomic.
func (r *helpRequestRepository) Create(ctx context.Context, request *models.HelpRequest) error {
	query := `
		INSERT INTO help_requests (task_id, requested_by, message)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, status, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		request.TaskID, request.RequestedBy, request.Message,
	).Scan(&request.ID, &request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create help request: %w", err)
	}

	return nil
}

// GetByID retrieves a help request by id.
func (r *helpRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HelpRequest, error) {
	query := `SELECT ` + helpRequestColumns + ` FROM help_requests WHERE id = $1`
	return scanHelpRequest(r.db.QueryRow(ctx, query, id))
}

// List retrieves all help requests, newest first.
func (r *helpRequestRepository) List(ctx context.Context) ([]*models.HelpRequest, error) {
	query := `SELECT ` + helpRequestColumns + ` FROM help_requests ORDER BY created_at DESC`
	return r.queryHelpRequests(ctx, query)
}

// ListVisibleTo retrieves the requests relevant to an employee.
func (r *helpRequestRepository) ListVisibleTo(ctx context.Context, userID uuid.UUID) ([]*models.HelpRequest, error) {
	query := `SELECT ` + helpRequestColumns + `
		FROM help_requests
		WHERE requested_by = $1 OR helped_by = $1 OR status = $2
		ORDER BY created_at DESC`
	return r.queryHelpRequests(ctx, query, userID, models.HelpRequestPending)
}

func (r *helpRequestRepository) queryHelpRequests(ctx context.Context, query string, args ...any) ([]*models.HelpRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list help requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.HelpRequest
	for rows.Next() {
		h, err := scanHelpRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, h)
	}

	return requests, rows.Err()
}

// Accept conditionally transitions a pending request to accepted.
func (r *helpRequestRepository) Accept(ctx context.Context, id, helperID uuid.UUID) error {
	query := `
		UPDATE help_requests
		SET status = $1, helped_by = $2, updated_at = now()
		WHERE id = $3 AND status = $4`

	result, err := r.db.Exec(ctx, query,
		models.HelpRequestAccepted, helperID, id, models.HelpRequestPending)
	if err != nil {
		return fmt.Errorf("failed to accept help request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// Complete conditionally transitions an accepted request to completed.
func (r *helpRequestRepository) Complete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE help_requests
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`

	result, err := r.db.Exec(ctx, query,
		models.HelpRequestCompleted, id, models.HelpRequestAccepted)
	if err != nil {
		return fmt.Errorf("failed to complete help request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// Delete removes a help request regardless of its lifecycle stage.
func (r *helpRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM help_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete help request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
