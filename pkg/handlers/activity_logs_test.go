package handlers

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
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

func TestActivityLogHandler_List_Filters(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}
	userID := uuid.New()

	var gotFilter repositories.ActivityLogFilter
	svc := &stubActivityService{
		listFn: func(ctx context.Context, a models.Actor, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error) {
			gotFilter = filter
			return []*models.ActivityLog{}, nil
		},
	}
	h := NewActivityLogHandler(svc, zap.NewNop())

	target := "/api/activity-logs?userId=" + userID.String() + "&type=success&limit=20"
	req := newAuthedRequest(http.MethodGet, target, "", actor)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.UserID)
	assert.Equal(t, userID, *gotFilter.UserID)
	assert.Equal(t, "success", gotFilter.Type)
	assert.Equal(t, 20, gotFilter.Limit)
}

func TestActivityLogHandler_List_BadFilters(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleAdmin}
	h := NewActivityLogHandler(&stubActivityService{}, zap.NewNop())

	for _, target := range []string{
		"/api/activity-logs?userId=not-a-uuid",
		"/api/activity-logs?limit=zero",
		"/api/activity-logs?limit=-5",
	} {
		req := newAuthedRequest(http.MethodGet, target, "", actor)
		rec := httptest.NewRecorder()
		h.List(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestActivityLogHandler_List_NonAdminForbidden(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleManager}

	svc := &stubActivityService{
		listFn: func(ctx context.Context, a models.Actor, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error) {
			return nil, apperrors.ErrForbidden
		},
	}
	h := NewActivityLogHandler(svc, zap.NewNop())

	req := newAuthedRequest(http.MethodGet, "/api/activity-logs", "", actor)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// routesUserLoader backs the auth middleware in route registration tests.
type routesUserLoader struct {
	users map[uuid.UUID]*models.User
}

func (l *routesUserLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := l.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// The Admin gate sits on the route itself: a manager's request never reaches
// the handler, while an admin's passes through to the service.
func TestActivityLogHandler_RegisteredRoute_AdminGate(t *testing.T) {
	manager := &models.User{ID: uuid.New(), Email: "ayse@ofistakip.test", Role: models.RoleManager, Status: models.UserStatusActive}
	admin := &models.User{ID: uuid.New(), Email: "fatma@ofistakip.test", Role: models.RoleAdmin, Status: models.UserStatusActive}

	tokens := auth.NewTokenService("test-secret", time.Hour)
	loader := &routesUserLoader{users: map[uuid.UUID]*models.User{
		manager.ID: manager,
		admin.ID:   admin,
	}}
	authMiddleware := auth.NewMiddleware(tokens, loader, zap.NewNop())

	handlerCalled := false
	svc := &stubActivityService{
		listFn: func(ctx context.Context, a models.Actor, filter repositories.ActivityLogFilter) ([]*models.ActivityLog, error) {
			handlerCalled = true
			return []*models.ActivityLog{}, nil
		},
	}

	mux := http.NewServeMux()
	NewActivityLogHandler(svc, zap.NewNop()).RegisterRoutes(mux, authMiddleware)

	managerToken, err := tokens.Issue(manager)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/activity-logs", nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, handlerCalled, "role gate should reject before the handler runs")

	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/activity-logs", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, handlerCalled)
}
