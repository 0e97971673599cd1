package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/services"
)

// TaskHandler serves task CRUD and the caller's own task list.
type TaskHandler struct {
	taskService services.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// RegisterRoutes registers the task endpoints on the mux. The literal /my
// route must be registered alongside the {id} pattern; the mux prefers the
// more specific literal segment.
// Update stays open to employees because assignees may move their own
// progress and status.
func (h *TaskHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	requireAuth := authMiddleware.RequireAuth
	managerial := authMiddleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	mux.HandleFunc("GET /api/tasks", requireAuth(h.List))
	mux.HandleFunc("GET /api/tasks/my", requireAuth(h.ListMine))
	mux.HandleFunc("POST /api/tasks", requireAuth(managerial(h.Create)))
	mux.HandleFunc("GET /api/tasks/{id}", requireAuth(h.Get))
	mux.HandleFunc("PUT /api/tasks/{id}", requireAuth(h.Update))
	mux.HandleFunc("DELETE /api/tasks/{id}", requireAuth(managerial(h.Delete)))
}

type createTaskRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ProjectID   uuid.UUID   `json:"project"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	Priority    string      `json:"priority"`
	Deadline    time.Time   `json:"deadline"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	Progress    *int       `json:"progress"`
	Deadline    *time.Time `json:"deadline"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	tasks, err := h.taskService.List(r.Context(), actor)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", tasks)
}

func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	tasks, err := h.taskService.ListMine(r.Context(), actor)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid task id", apperrors.ErrValidation))
		return
	}

	task, err := h.taskService.Get(r.Context(), actor, id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", task)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}

	task, err := h.taskService.Create(r.Context(), actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusCreated, "Task created", task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid task id", apperrors.ErrValidation))
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}

	task, err := h.taskService.Update(r.Context(), actor, id, services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Progress:    req.Progress,
		Deadline:    req.Deadline,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Task updated", task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid task id", apperrors.ErrValidation))
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, id); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Task deleted", nil)
}
