package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
)

// Generic failure messages written by the transport layer itself.
const (
	MsgInternalError    = "An error occurred while processing your request"
	MsgInvalidRequest   = "Invalid request format"
	MsgValidationFailed = "Validation failed"
	MsgUnauthorized     = "Unauthorized"
	MsgTooManyRequests  = "Too many requests"
)

// StatusForCode maps an envelope failure code to its default HTTP status.
func StatusForCode(code envelope.ErrorCode) int {
	switch code {
	case envelope.ValidationFailed, envelope.RegistrationFailed:
		return http.StatusBadRequest
	case envelope.DuplicateEmail, envelope.DuplicateUsername:
		return http.StatusConflict
	case envelope.InvalidCredentials, envelope.AccountInactive, envelope.Unauthenticated:
		return http.StatusUnauthorized
	case envelope.RateLimited:
		return http.StatusTooManyRequests
	case envelope.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// StatusOverride replaces the default status of one failure code.
type StatusOverride struct {
	Code   envelope.ErrorCode
	Status int
}

// RespondWithEnvelope writes resp as the body. A success uses successStatus;
// a failure uses the first matching override or StatusForCode.
func RespondWithEnvelope[T any](
	w http.ResponseWriter,
	r *http.Request,
	successStatus int,
	resp envelope.Response[T],
	overrides ...StatusOverride,
) {
	status := successStatus
	if !resp.Success {
		status = StatusForCode(resp.Code)
		for _, o := range overrides {
			if o.Code == resp.Code {
				status = o.Status
				break
			}
		}
		logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("request failed",
			slog.String("code", string(resp.Code)),
			slog.Int("status_code", status),
			slog.String("path", r.URL.Path))
	}
	RespondWithJSON(w, r, status, resp)
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a failure envelope with the given status.
func RespondWithError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code envelope.ErrorCode,
	message string,
	errs ...string,
) {
	logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("sending error response",
		"status_code", status,
		"message", message,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, envelope.Fail[any](code, message, errs...))
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithErrorAndLog writes a failure envelope carrying only userMessage
// and logs the redacted err.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 429 Too Many Requests: Logged at WARN level
// - Other 4xx errors: DEBUG, or WARN with WithElevatedLogLevel
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code envelope.ErrorCode,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	logAttrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}

	logger.FromContextOrDefault(r.Context(), slog.Default()).
		LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, envelope.Fail[any](code, userMessage))
}
