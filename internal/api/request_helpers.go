package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%s is required", paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid ID", paramName)
	}

	return id, nil
}

// handlePathUUID is getPathUUID that writes a 400 response on failure.
func handlePathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithError(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, shared.MsgValidationFailed, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// handleCurrentUser returns the authenticated user's ID, writing a 401
// response when the request carries no identity.
func handleCurrentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized,
			envelope.Unauthenticated, shared.MsgUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// decodeAndValidate reads the JSON body into dst and validates it. It writes
// a 400 response and returns false when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, shared.MsgInvalidRequest, err)
		return false
	}
	if err := v.Struct(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, shared.MsgValidationFailed, shared.ValidationMessages(err)...)
		return false
	}
	return true
}
