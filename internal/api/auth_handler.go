package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// AuthHandler handles authentication and identity requests.
type AuthHandler struct {
	authService auth.Service
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   newRequestValidator(),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:     req.Email,
		Username:  req.UserName,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	shared.RespondWithEnvelope(w, r, http.StatusOK, resp)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp := h.authService.Login(r.Context(), req.Email, req.Password)
	shared.RespondWithEnvelope(w, r, http.StatusOK, resp)
}

// Me handles GET /auth/me for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleCurrentUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.authService.GetIdentity(r.Context(), userID))
}

// GetUser handles GET /users/{id}.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.authService.GetIdentity(r.Context(), id))
}
