// Package handlers contains the HTTP layer for ofistakip-engine.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
)

// Envelope is the standard response body for every endpoint. Errors carries
// field-level validation detail and is only set on validation failures.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, logger *zap.Logger, statusCode int, message string, data any) {
	writeEnvelope(w, logger, statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError maps an error to its HTTP status and writes a failure envelope.
// Unexpected errors surface as a generic 500 without internal detail.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var statusCode int
	message := err.Error()
	var details []string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Surface the field-level detail separately from the summary.
		if detail := strings.TrimPrefix(message, apperrors.ErrValidation.Error()+": "); detail != message {
			details = []string{detail}
		}
	case errors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
	case errors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
	default:
		statusCode = http.StatusInternalServerError
		message = "Server error"
		logger.Error("Unexpected error", zap.Error(err))
	}

	writeEnvelope(w, logger, statusCode, Envelope{
		Success: false,
		Message: message,
		Errors:  details,
	})
}

func writeEnvelope(w http.ResponseWriter, logger *zap.Logger, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
