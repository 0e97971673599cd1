package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/apperrors"
	"github.com/ofistakip/ofistakip-engine/pkg/auth"
	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/services"
)

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
	logger      *zap.Logger
}

func NewAuthHandler(authService services.AuthService, userService services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth endpoints on the mux. Register and login
// are the only unauthenticated API routes.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/me", authMiddleware.RequireAuth(h.Me))
}

type registerRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	DashboardURL string       `json:"dashboardUrl"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}

	session, err := h.authService.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusCreated, "Registration successful", sessionResponse{
		User:         session.User,
		Token:        session.Token,
		DashboardURL: session.DashboardURL,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "Login successful", sessionResponse{
		User:         session.User,
		Token:        session.Token,
		DashboardURL: session.DashboardURL,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		WriteError(w, h.logger, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), actor, actor.ID)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteSuccess(w, h.logger, http.StatusOK, "", user)
}
