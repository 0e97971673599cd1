package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
)

// stubUserLoader serves a fixed user set keyed by id.
type stubUserLoader struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func newMiddlewareFixture(t *testing.T) (*Middleware, *TokenService, *models.User) {
	t.Helper()

	user := &models.User{
		ID:     uuid.New(),
		Email:  "mehmet@ofis.local",
		Role:   models.RoleEmployee,
		Status: models.UserStatusActive,
	}
	tokens := NewTokenService("test-secret", time.Hour)
	loader := &stubUserLoader{users: map[uuid.UUID]*models.User{user.ID: user}}

	return NewMiddleware(tokens, loader, zap.NewNop()), tokens, user
}

func TestMiddleware_RequireAuth(t *testing.T) {
	mw, tokens, user := newMiddlewareFixture(t)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	var gotActor models.Actor
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		gotActor = actor
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, gotActor.ID)
	assert.Equal(t, models.RoleEmployee, gotActor.Role)
}

func TestMiddleware_RequireAuth_NoToken(t *testing.T) {
	mw, _, _ := newMiddlewareFixture(t)

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RequireAuth_BadToken(t *testing.T) {
	mw, _, _ := newMiddlewareFixture(t)

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RequireAuth_InactiveUser(t *testing.T) {
	mw, tokens, user := newMiddlewareFixture(t)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	// Deactivation takes effect immediately, before the token expires.
	user.Status = models.UserStatusInactive

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RequireAuth_DeletedUser(t *testing.T) {
	mw, tokens, _ := newMiddlewareFixture(t)

	ghost := &models.User{ID: uuid.New(), Role: models.RoleEmployee, Status: models.UserStatusActive}
	token, err := tokens.Issue(ghost)
	require.NoError(t, err)

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RequireRoles(t *testing.T) {
	mw, tokens, user := newMiddlewareFixture(t)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	adminOnly := mw.RequireAuth(mw.RequireRoles(models.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("employee must not reach admin handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/activity-logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	adminOnly(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	reached := false
	employeeOK := mw.RequireAuth(mw.RequireRoles(models.RoleEmployee, models.RoleManager)(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	employeeOK(rec, req)

	assert.True(t, reached)
}
