package handlers

import (
	"net/http"

	"go.uber.org/zap"

	userapp "github.com/forkful/v1/internal/application/user"
	"github.com/forkful/v1/internal/infrastructure/http/middleware"
	"github.com/forkful/v1/internal/infrastructure/security"
	apperrors "github.com/forkful/v1/pkg/errors"
)

// UserAPIHandlers handles user registration, token issuance and the
// authenticated profile endpoints.
type UserAPIHandlers struct {
	userService *userapp.UserService
	authService *security.AuthService
	logger      *zap.Logger
}

// NewUserAPIHandlers creates a new user API handlers instance
func NewUserAPIHandlers(
	userService *userapp.UserService,
	authService *security.AuthService,
	logger *zap.Logger,
) *UserAPIHandlers {
	return &UserAPIHandlers{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /api/v1/users/create
func (h *UserAPIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var cmd userapp.RegisterCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.userService.Register(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{Success: true, Data: dto})
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token handles POST /api/v1/users/token
func (h *UserAPIHandlers) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, h.logger, apperrors.NewValidationError("email and password are required"))
		return
	}

	token, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: tokenResponse{Token: token.Key}})
}

// GetProfile handles GET /api/v1/users/me
func (h *UserAPIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.NewUnauthorizedError(""))
		return
	}

	dto, err := h.userService.GetProfile(r.Context(), caller.ID())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// UpdateProfile handles PATCH /api/v1/users/me
func (h *UserAPIHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.NewUnauthorizedError(""))
		return
	}

	var cmd userapp.UpdateProfileCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.userService.UpdateProfile(r.Context(), caller.ID(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{Success: true, Data: dto})
}
