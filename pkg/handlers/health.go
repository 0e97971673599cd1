package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/database"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db      *database.DB
	version string
	logger  *zap.Logger
}

func NewHealthHandler(db *database.DB, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger,
	}
}

// RegisterRoutes registers the health endpoint on the mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	statusCode := http.StatusOK

	if err := h.db.Pool.Ping(r.Context()); err != nil {
		h.logger.Error("Health check database ping failed", zap.Error(err))
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	WriteSuccess(w, h.logger, statusCode, "", map[string]string{
		"status":  status,
		"version": h.version,
	})
}
