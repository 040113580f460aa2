package api

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	FirstName       string `json:"firstName"       validate:"required,min=2,max=100"`
	LastName        string `json:"lastName"        validate:"required,min=2,max=100"`
	Email           string `json:"email"           validate:"required,email"`
	UserName        string `json:"userName"        validate:"required,min=3,max=50"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateTaskRequest defines the payload for creating a task. The creator is
// always the authenticated user.
type CreateTaskRequest struct {
	Title        string     `json:"title"        validate:"required,min=3,max=200"`
	Description  string     `json:"description"  validate:"max=2000"`
	Priority     int        `json:"priority"     validate:"required,min=1,max=4"`
	Status       int        `json:"status"       validate:"required,min=1,max=5"`
	DueDate      *time.Time `json:"dueDate"      validate:"omitempty,notbeforetoday"`
	AssignedToID uuid.UUID  `json:"assignedToId" validate:"required"`
}

// UpdateTaskRequest defines the payload for replacing a task's mutable
// fields. ID must equal the id in the path.
type UpdateTaskRequest struct {
	ID           uuid.UUID  `json:"id"           validate:"required"`
	Title        string     `json:"title"        validate:"required,min=3,max=200"`
	Description  string     `json:"description"  validate:"max=2000"`
	Priority     int        `json:"priority"     validate:"required,min=1,max=4"`
	Status       int        `json:"status"       validate:"required,min=1,max=5"`
	DueDate      *time.Time `json:"dueDate"`
	AssignedToID uuid.UUID  `json:"assignedToId" validate:"required"`
}

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
