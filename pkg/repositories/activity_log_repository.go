package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ofistakip/ofistakip-engine/pkg/database"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
)

// ActivityLogFilter narrows an activity log listing.
type ActivityLogFilter struct {
	UserID *uuid.UUID
	Type   string
	Limit  int
}

// ActivityLogRepository defines the interface for the append-only audit sink.
type ActivityLogRepository interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]*models.ActivityLog, error)
}

// activityLogRepository implements ActivityLogRepository using PostgreSQL.
type activityLogRepository struct {
	db *database.DB
}

// NewActivityLogRepository creates a new activity log repository.
func NewActivityLogRepository(db *database.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// Insert appends an entry. Entries are never updated or deleted.
func (r *activityLogRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, action, details, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		entry.UserID, entry.Action, entry.Details, entry.Type,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	return nil
}

// List retrieves entries newest first, optionally filtered by user and type.
func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]*models.ActivityLog, error) {
	query := `SELECT id, user_id, action, details, type, created_at FROM activity_logs`
	args := []any{}
	where := ""

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = fmt.Sprintf(" WHERE user_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		if where == "" {
			where = fmt.Sprintf(" WHERE type = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND type = $%d", len(args))
		}
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)

	query += where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		var e models.ActivityLog
		err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.Type, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
