package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
//
// Every read excludes soft-deleted tasks. Implementations apply that
// predicate themselves so callers can never observe a deleted task.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrForeignKey if the assignee or creator does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// Update overwrites every mutable column of an existing task, including
	// IsDeleted. There is no version check; the last write wins.
	// Returns ErrTaskNotFound if the task does not exist or is already deleted.
	Update(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a live task.
	// Returns ErrTaskNotFound if it does not exist or is soft-deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetAll returns every live task, newest first.
	GetAll(ctx context.Context) ([]*domain.Task, error)

	// GetByAssignee returns live tasks assigned to userID, newest first.
	GetByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// GetByStatus returns live tasks in the given status, newest first.
	GetByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)

	// GetOverdue returns live tasks due before now that are neither
	// completed nor cancelled, earliest due date first.
	GetOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error)
}
