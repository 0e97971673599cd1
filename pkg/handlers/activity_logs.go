package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
	"github.com/ofistakip/ofistakip-engine/pkg/services"
)

// ActivityLogHandler serves the audit trail. Admin-only, enforced at the
// route and again in the service.
type ActivityLogHandler struct {
	activityService services.ActivityService
	logger          *zap.Logger
}

func NewActivityLogHandler(activityService services.ActivityService, logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// RegisterRoutes registers the activity log endpoint on the mux. The log is
// Admin-only, so the role gate sits on the route as well as in the service.
func (h *ActivityLogHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	adminOnly := authMiddleware.RequireRoles(models.RoleAdmin)
	mux.HandleFunc("GET /api/activity-logs", authMiddleware.RequireAuth(adminOnly(h.List)))
}

func (h *ActivityLogHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	var filter repositories.ActivityLogFilter

	if raw := r.URL.Query().Get("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, h.logger, fmt.Errorf("%w: invalid userId filter", apperrors.ErrValidation))
			return
		}
		filter.UserID = &userID
	}

	filter.Type = r.URL.Query().Get("type")

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			WriteError(w, h.logger, fmt.Errorf("%w: invalid limit filter", apperrors.ErrValidation))
			return
		}
		filter.Limit = limit
	}

	logs, err := h.activityService.List(r.Context(), actor, filter)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", logs)
}
