// Package envelope defines the uniform result shape returned by every
// service operation.
package envelope

// ErrorCode classifies an expected failure so the transport layer can pick
// a status without parsing messages.
type ErrorCode string

// Failure codes.
const (
	ValidationFailed   ErrorCode = "ValidationFailed"
	DuplicateEmail     ErrorCode = "DuplicateEmail"
	DuplicateUsername  ErrorCode = "DuplicateUsername"
	RegistrationFailed ErrorCode = "RegistrationFailed"
	InvalidCredentials ErrorCode = "InvalidCredentials"
	AccountInactive    ErrorCode = "AccountInactive"
	NotFound           ErrorCode = "NotFound"
	PersistenceError   ErrorCode = "PersistenceError"
	QueryFailed        ErrorCode = "QueryFailed"
	InternalError      ErrorCode = "InternalError"

	// Raised by the transport layer rather than a service.
	Unauthenticated ErrorCode = "Unauthenticated"
	RateLimited     ErrorCode = "RateLimited"
)

// DefaultSuccessMessage is used by OK when no message is given.
const DefaultSuccessMessage = "Operation successful"

// Response is a tagged result: Success with Data, or a failure with a
// Message, a list of Errors and a Code. Errors is never nil.
type Response[T any] struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    T         `json:"data"`
	Errors  []string  `json:"errors"`
	Code    ErrorCode `json:"code,omitempty"`
}

// OK builds a success envelope.
func OK[T any](data T, message string) Response[T] {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
		Errors:  []string{},
	}
}

// Fail builds a failure envelope. Data holds T's zero value.
func Fail[T any](code ErrorCode, message string, errs ...string) Response[T] {
	list := make([]string, 0, len(errs))
	list = append(list, errs...)
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  list,
		Code:    code,
	}
}
