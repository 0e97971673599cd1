package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/services"
)

// HelpRequestHandler serves the help request lifecycle endpoints.
type HelpRequestHandler struct {
	helpService services.HelpRequestService
	logger      *zap.Logger
}

func NewHelpRequestHandler(helpService services.HelpRequestService, logger *zap.Logger) *HelpRequestHandler {
	return &HelpRequestHandler{
		helpService: helpService,
		logger:      logger,
	}
}

// RegisterRoutes registers the help request endpoints on the mux. No
// route-level role gate: creation and acceptance are employee moves, but
// deletion is also open to managers and admins, so the service decides.
func (h *HelpRequestHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	requireAuth := authMiddleware.RequireAuth

	mux.HandleFunc("GET /api/help-requests", requireAuth(h.List))
	mux.HandleFunc("POST /api/help-requests", requireAuth(h.Create))
	mux.HandleFunc("GET /api/help-requests/{id}", requireAuth(h.Get))
	mux.HandleFunc("POST /api/help-requests/{id}/accept", requireAuth(h.Accept))
	mux.HandleFunc("POST /api/help-requests/{id}/complete", requireAuth(h.Complete))
	mux.HandleFunc("DELETE /api/help-requests/{id}", requireAuth(h.Delete))
}

type createHelpRequestRequest struct {
	TaskID  uuid.UUID `json:"taskId"`
	Message string    `json:"message"`
}

func (h *HelpRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	requests, err := h.helpService.List(r.Context(), actor)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", requests)
}

func (h *HelpRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid help request id", apperrors.ErrValidation))
		return
	}

	request, err := h.helpService.Get(r.Context(), actor, id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", request)
}

func (h *HelpRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	var req createHelpRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}
	if req.TaskID == uuid.Nil {
		WriteError(w, h.logger, fmt.Errorf("%w: taskId is required", apperrors.ErrValidation))
		return
	}

	request, err := h.helpService.Create(r.Context(), actor, req.TaskID, req.Message)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusCreated, "Help request created", request)
}

func (h *HelpRequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid help request id", apperrors.ErrValidation))
		return
	}

	request, err := h.helpService.Accept(r.Context(), actor, id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Help request accepted", request)
}

func (h *HelpRequestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid help request id", apperrors.ErrValidation))
		return
	}

	request, err := h.helpService.Complete(r.Context(), actor, id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Help request completed", request)
}

func (h *HelpRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid help request id", apperrors.ErrValidation))
		return
	}

	if err := h.helpService.Delete(r.Context(), actor, id); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Help request deleted", nil)
}
