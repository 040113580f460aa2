package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
)

const taskColumns = `id, title, description, priority, status, due_date, completed_at,
	created_at, updated_at, assigned_to_id, created_by_id, is_deleted`

// liveTasks is the soft-delete predicate shared by every read.
const liveTasks = `NOT is_deleted`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		int(task.Priority),
		int(task.Status),
		timePtrArg(task.DueDate),
		timePtrArg(task.CompletedAt),
		task.CreatedAt.UTC(),
		timePtrArg(task.UpdatedAt),
		task.AssignedToID,
		task.CreatedByID,
		task.IsDeleted,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("assigned_to_id", task.AssignedToID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("created_by_id", task.CreatedByID.String()))
	return nil
}

// Update implements store.TaskStore.Update.
// Every mutable column is written; id, created_at and created_by_id are not.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, status = $4,
			due_date = $5, completed_at = $6, updated_at = $7,
			assigned_to_id = $8, is_deleted = $9
		WHERE id = $10 AND ` + liveTasks

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		int(task.Priority),
		int(task.Status),
		timePtrArg(task.DueDate),
		timePtrArg(task.CompletedAt),
		timePtrArg(task.UpdatedAt),
		task.AssignedToID,
		task.IsDeleted,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
		} else {
			log.Error("failed to get rows affected",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
		}
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", task.Status.String()),
		slog.Bool("deleted", task.IsDeleted))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND ` + liveTasks
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// GetAll implements store.TaskStore.GetAll
func (s *PostgresTaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	return s.list(ctx, "all",
		`SELECT `+taskColumns+` FROM tasks WHERE `+liveTasks+` ORDER BY created_at DESC, id`)
}

// GetByAssignee implements store.TaskStore.GetByAssignee
func (s *PostgresTaskStore) GetByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx, "by_assignee",
		`SELECT `+taskColumns+` FROM tasks WHERE assigned_to_id = $1 AND `+liveTasks+`
		ORDER BY created_at DESC, id`, userID)
}

// GetByStatus implements store.TaskStore.GetByStatus
func (s *PostgresTaskStore) GetByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	return s.list(ctx, "by_status",
		`SELECT `+taskColumns+` FROM tasks WHERE status = $1 AND `+liveTasks+`
		ORDER BY created_at DESC, id`, int(status))
}

// GetOverdue implements store.TaskStore.GetOverdue
func (s *PostgresTaskStore) GetOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	return s.list(ctx, "overdue",
		`SELECT `+taskColumns+` FROM tasks
		WHERE due_date IS NOT NULL AND due_date < $1 AND status NOT IN ($2, $3) AND `+liveTasks+`
		ORDER BY due_date ASC, id`,
		now.UTC(), int(domain.StatusCompleted), int(domain.StatusCancelled))
}

func (s *PostgresTaskStore) list(ctx context.Context, name, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("query", name))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("query", name))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()),
			slog.String("query", name))
		return nil, err
	}

	log.Debug("tasks retrieved",
		slog.String("query", name),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task                           domain.Task
		priority, status               int
		dueDate, completedAt, updateAt sql.NullTime
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&dueDate,
		&completedAt,
		&task.CreatedAt,
		&updateAt,
		&task.AssignedToID,
		&task.CreatedByID,
		&task.IsDeleted,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.TaskPriority(priority)
	task.Status = domain.TaskStatus(status)
	task.DueDate = nullTimePtr(dueDate)
	task.CompletedAt = nullTimePtr(completedAt)
	task.UpdatedAt = nullTimePtr(updateAt)
	task.CreatedAt = task.CreatedAt.UTC()
	return &task, nil
}
