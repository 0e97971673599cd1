package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/models"
)

// UserLoader fetches the current account state for a token subject. The user
// is re-read on every request so that deactivated accounts are locked out
// immediately, not at token expiry.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Middleware provides HTTP authentication middleware.
type Middleware struct {
	tokens *TokenService
	users  UserLoader
	logger *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(tokens *TokenService, users UserLoader, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// RequireAuth validates the bearer token, re-reads the user, and rejects
// inactive accounts. Sets the actor in context for downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" || token == authHeader {
			m.unauthorized(w, "Access denied. No token provided.")
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			m.unauthorized(w, "Token is not valid")
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			m.unauthorized(w, "Token is not valid")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			m.unauthorized(w, "Token is not valid")
			return
		}

		if user.Status != models.UserStatusActive {
			m.unauthorized(w, "User account is inactive")
			return
		}

		actor := models.Actor{ID: user.ID, Role: user.Role}
		next(w, r.WithContext(WithActor(r.Context(), actor)))
	}
}

// RequireRoles wraps a handler so that only actors holding one of the given
// roles may reach it. Must run inside RequireAuth.
func (m *Middleware) RequireRoles(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				m.unauthorized(w, "Access denied")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next(w, r)
					return
				}
			}

			m.logger.Debug("Role check failed",
				zap.String("actor_id", actor.ID.String()),
				zap.String("role", actor.Role),
				zap.String("path", r.URL.Path))
			m.forbidden(w, "Access forbidden")
		}
	}
}

// unauthorized returns a 401 response with a JSON envelope body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	m.writeEnvelope(w, http.StatusUnauthorized, message)
}

// forbidden returns a 403 response with a JSON envelope body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	m.writeEnvelope(w, http.StatusForbidden, message)
}

func (m *Middleware) writeEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
