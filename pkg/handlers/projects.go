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

// ProjectHandler serves project CRUD and employee assignment.
type ProjectHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes registers the project endpoints on the mux. Reads stay open
// to every authenticated caller since employees see their own memberships;
// writes are managerial.
func (h *ProjectHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	requireAuth := authMiddleware.RequireAuth
	managerial := authMiddleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	mux.HandleFunc("GET /api/projects", requireAuth(h.List))
	mux.HandleFunc("POST /api/projects", requireAuth(managerial(h.Create)))
	mux.HandleFunc("GET /api/projects/{id}", requireAuth(h.Get))
	mux.HandleFunc("PUT /api/projects/{id}", requireAuth(managerial(h.Update)))
	mux.HandleFunc("DELETE /api/projects/{id}", requireAuth(managerial(h.Delete)))
	mux.HandleFunc("POST /api/projects/{id}/assign", requireAuth(managerial(h.Assign)))
}

type createProjectRequest struct {
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Deadline          time.Time   `json:"deadline"`
	AssignedEmployees []uuid.UUID `json:"assignedEmployees"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      *string    `json:"status"`
	Progress    *int       `json:"progress"`
}

type assignEmployeeRequest struct {
	EmployeeID uuid.UUID `json:"employeeId"`
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	projects, err := h.projectService.List(r.Context(), actor)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid project id", apperrors.ErrValidation))
		return
	}

	project, err := h.projectService.Get(r.Context(), actor, id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, services.CreateProjectInput{
		Name:              req.Name,
		Description:       req.Description,
		Deadline:          req.Deadline,
		AssignedEmployees: req.AssignedEmployees,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusCreated, "Project created", project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid project id", apperrors.ErrValidation))
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}

	project, err := h.projectService.Update(r.Context(), actor, id, services.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      req.Status,
		Progress:    req.Progress,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Project updated", project)
}

func (h *ProjectHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid project id", apperrors.ErrValidation))
		return
	}

	var req assignEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}
	if req.EmployeeID == uuid.Nil {
		WriteError(w, h.logger, fmt.Errorf("%w: employeeId is required", apperrors.ErrValidation))
		return
	}

	if err := h.projectService.AssignEmployee(r.Context(), actor, id, req.EmployeeID); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Employee assigned to project", nil)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid project id", apperrors.ErrValidation))
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, id); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Project deleted", nil)
}
