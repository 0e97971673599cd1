package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

// HelpRequestService governs the peer-assistance lifecycle:
// Bekliyor → Kabul Edildi → Tamamlandı, with deletion allowed from any state.
type HelpRequestService interface {
	Create(ctx context.Context, actor models.Actor, taskID uuid.UUID, message string) (*models.HelpRequest, error)
	Accept(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error)
	Complete(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error)
	Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error)
	List(ctx context.Context, actor models.Actor) ([]*models.HelpRequest, error)
}

// helpRequestService implements HelpRequestService.
type helpRequestService struct {
	requests repositories.HelpRequestRepository
	tasks    repositories.TaskRepository
	activity ActivityService
	logger   *zap.Logger
}

// NewHelpRequestService creates a new help request service with dependencies.
func NewHelpRequestService(
	requests repositories.HelpRequestRepository,
	tasks repositories.TaskRepository,
	activity ActivityService,
	logger *zap.Logger,
) HelpRequestService {
	return &helpRequestService{
		requests: requests,
		tasks:    tasks,
		activity: activity,
		logger:   logger,
	}
}

// Create opens a pending request. Employees only, and only for a task the
// actor is assigned to. The store rejects a second active request per task.
func (s *helpRequestService) Create(ctx context.Context, actor models.Actor, taskID uuid.UUID, message string) (*models.HelpRequest, error) {
	if !actor.IsEmployee() {
		return nil, apperrors.ErrForbidden
	}

	if len(message) > 500 {
		return nil, fmt.Errorf("%w: message must be at most 500 characters", apperrors.ErrValidation)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignee(actor.ID) {
		return nil, fmt.Errorf("%w: you can only request help for your own tasks", apperrors.ErrForbidden)
	}

	request := &models.HelpRequest{
		TaskID:      taskID,
		RequestedBy: actor.ID,
		Message:     message,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: there is already an active help request for this task", apperrors.ErrConflict)
		}
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Help Request Created",
		fmt.Sprintf("Requested help for task: %s", task.Title), models.ActivityInfo)

	return request, nil
}

// Accept moves a pending request to Kabul Edildi and records the helper.
// Requesters cannot accept their own request.
func (s *helpRequestService) Accept(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
	if !actor.IsEmployee() {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Status != models.HelpRequestPending {
		return nil, fmt.Errorf("%w: help request is not available", apperrors.ErrConflict)
	}

	if request.RequestedBy == actor.ID {
		return nil, fmt.Errorf("%w: you cannot accept your own help request", apperrors.ErrConflict)
	}

	// Conditional update: loses cleanly if another employee accepted first.
	if err := s.requests.Accept(ctx, id, actor.ID); err != nil {
		return nil, err
	}

	request.Status = models.HelpRequestAccepted
	helper := actor.ID
	request.HelpedBy = &helper

	s.activity.Record(ctx, actor.ID, "Help Request Accepted",
		"Accepted help request", models.ActivitySuccess)

	return request, nil
}

// Complete moves an accepted request to its terminal state. Only the helper
// or the requester may complete it.
func (s *helpRequestService) Complete(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Status != models.HelpRequestAccepted {
		return nil, fmt.Errorf("%w: help request is not in accepted state", apperrors.ErrConflict)
	}

	canComplete := request.RequestedBy == actor.ID ||
		(request.HelpedBy != nil && *request.HelpedBy == actor.ID)
	if !canComplete {
		return nil, apperrors.ErrForbidden
	}

	if err := s.requests.Complete(ctx, id); err != nil {
		return nil, err
	}

	request.Status = models.HelpRequestCompleted

	s.activity.Record(ctx, actor.ID, "Help Request Completed",
		"Completed help request", models.ActivitySuccess)

	return request, nil
}

// Delete removes a request from any lifecycle stage. Requester or Admin only.
func (s *helpRequestService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if request.RequestedBy != actor.ID && !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, actor.ID, "Help Request Deleted",
		"Deleted help request", models.ActivityWarning)

	return nil
}

// Get retrieves a help request by id.
func (s *helpRequestService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// List retrieves requests visible to the actor. Employees see requests they
// made, help with, or could pick up; Manager/Admin see everything.
func (s *helpRequestService) List(ctx context.Context, actor models.Actor) ([]*models.HelpRequest, error) {
	if actor.IsEmployee() {
		return s.requests.ListVisibleTo(ctx, actor.ID)
	}
	return s.requests.List(ctx)
}
