// Package services contains the business logic for ofistakip-engine.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

// ActivityService records audit entries and serves the admin log view.
type ActivityService interface {
	// Record appends an entry best-effort: failures are logged and swallowed
	// so an audit write can never fail the operation being audited.
	Record(ctx context.Context, userID uuid.UUID, action, details, entryType string)
	List(ctx context.Context, actor models.Actor, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error)
}

// activityService implements ActivityService.
type activityService struct {
	logs   repositories.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(logs repositories.ActivityLogRepository, logger *zap.Logger) ActivityService {
	return &activityService{
		logs:   logs,
		logger: logger.Named("activity"),
	}
}

// Record appends an audit entry outside the caller's transactional boundary.
func (s *activityService) Record(ctx context.Context, userID uuid.UUID, action, details, entryType string) {
	entry := &models.ActivityLog{
		UserID:  userID,
		Action:  action,
		Details: details,
		Type:    entryType,
	}

	if err := s.logs.Insert(ctx, entry); err != nil {
		s.logger.Warn("Failed to write activity log",
			zap.String("action", action),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}

	s.logger.Debug("Activity recorded",
		zap.String("action", action),
		zap.String("type", entryType),
		zap.String("user_id", userID.String()))
}

// List returns recent entries. Admin only.
func (s *activityService) List(ctx context.Context, actor models.Actor, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	entries, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	return entries, nil
}
