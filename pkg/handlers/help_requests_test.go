package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
)

func TestHelpRequestHandler_Create(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleEmployee}
	taskID := uuid.New()

	svc := &stubHelpRequestService{
		createFn: func(ctx context.Context, a models.Actor, gotTaskID uuid.UUID, message string) (*models.HelpRequest, error) {
			assert.Equal(t, taskID, gotTaskID)
			assert.Equal(t, "Takıldım", message)
			return &models.HelpRequest{
				ID: uuid.New(), TaskID: gotTaskID, RequestedBy: a.ID,
				Status: models.HelpRequestPending, Message: message,
			}, nil
		},
	}
	h := NewHelpRequestHandler(svc, zap.NewNop())

	body := `{"taskId": "` + taskID.String() + `", "message": "Takıldım"}`
	req := newAuthedRequest(http.MethodPost, "/api/help-requests", body, actor)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHelpRequestHandler_Create_MissingTaskID(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleEmployee}
	h := NewHelpRequestHandler(&stubHelpRequestService{}, zap.NewNop())

	req := newAuthedRequest(http.MethodPost, "/api/help-requests", `{"message": "x"}`, actor)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHelpRequestHandler_Accept(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleEmployee}
	requestID := uuid.New()

	svc := &stubHelpRequestService{
		acceptFn: func(ctx context.Context, a models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
			assert.Equal(t, requestID, id)
			helper := a.ID
			return &models.HelpRequest{ID: id, Status: models.HelpRequestAccepted, HelpedBy: &helper}, nil
		},
	}
	h := NewHelpRequestHandler(svc, zap.NewNop())

	req := newAuthedRequest(http.MethodPost, "/api/help-requests/"+requestID.String()+"/accept", "", actor)
	req.SetPathValue("id", requestID.String())
	rec := httptest.NewRecorder()
	h.Accept(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "Help request accepted", env.Message)
}

func TestHelpRequestHandler_Accept_ConflictMapsTo400(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleEmployee}
	requestID := uuid.New()

	svc := &stubHelpRequestService{
		acceptFn: func(ctx context.Context, a models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
			return nil, apperrors.ErrConflict
		},
	}
	h := NewHelpRequestHandler(svc, zap.NewNop())

	req := newAuthedRequest(http.MethodPost, "/api/help-requests/"+requestID.String()+"/accept", "", actor)
	req.SetPathValue("id", requestID.String())
	rec := httptest.NewRecorder()
	h.Accept(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHelpRequestHandler_Complete_NotFoundMapsTo404(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Role: models.RoleEmployee}
	requestID := uuid.New()

	svc := &stubHelpRequestService{
		completeFn: func(ctx context.Context, a models.Actor, id uuid.UUID) (*models.HelpRequest, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	h := NewHelpRequestHandler(svc, zap.NewNop())

	req := newAuthedRequest(http.MethodPost, "/api/help-requests/"+requestID.String()+"/complete", "", actor)
	req.SetPathValue("id", requestID.String())
	rec := httptest.NewRecorder()
	h.Complete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
