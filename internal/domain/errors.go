package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")
)

// PasswordPolicyError lists every rule a candidate password violates.
// It matches both ErrValidation and ErrInvalidPassword under errors.Is.
type PasswordPolicyError struct {
	Reasons []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet policy: " + strings.Join(e.Reasons, "; ")
}

// Is lets callers classify the error with errors.Is.
func (e *PasswordPolicyError) Is(target error) bool {
	return target == ErrValidation || target == ErrInvalidPassword
}
