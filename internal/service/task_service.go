package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/events"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// TaskService manages the lifecycle of tasks.
type TaskService interface {
	// Create stores a new task owned by createdByID and returns it as read back.
	Create(ctx context.Context, in CreateTaskInput, createdByID uuid.UUID) envelope.Response[*TaskDTO]

	// Update replaces the mutable fields of a live task. Entering Completed
	// stamps CompletedAt once; it is never cleared.
	Update(ctx context.Context, in UpdateTaskInput) envelope.Response[*TaskDTO]

	// Delete soft-deletes a live task.
	Delete(ctx context.Context, id uuid.UUID) envelope.Response[bool]

	GetByID(ctx context.Context, id uuid.UUID) envelope.Response[*TaskDTO]
	GetAll(ctx context.Context) envelope.Response[[]TaskDTO]
	GetByAssignee(ctx context.Context, userID uuid.UUID) envelope.Response[[]TaskDTO]
	GetByStatus(ctx context.Context, status domain.TaskStatus) envelope.Response[[]TaskDTO]
	GetOverdue(ctx context.Context) envelope.Response[[]TaskDTO]
}

// TaskServiceImpl implements TaskService on top of a TaskStore.
type TaskServiceImpl struct {
	tasks    store.TaskStore
	users    store.UserStore
	emitter  events.EventEmitter
	timeFunc func() time.Time
	logger   *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService. users may be nil, in which case
// DTOs carry no user summaries; emitter may be nil to disable events.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*TaskServiceImpl, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskServiceImpl{
		tasks:    tasks,
		users:    users,
		emitter:  emitter,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	in CreateTaskInput,
	createdByID uuid.UUID,
) envelope.Response[*TaskDTO] {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	task, err := newTaskFromInput(in, createdByID, now)
	if err != nil {
		return envelope.Fail[*TaskDTO](envelope.ValidationFailed, MsgTaskInvalid, err.Error())
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("created_by", createdByID.String()))
		return envelope.Fail[*TaskDTO](envelope.PersistenceError, MsgCreateFailed, redact.Error(err))
	}

	stored, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil {
		log.Error("failed to read back created task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()))
		return envelope.Fail[*TaskDTO](envelope.PersistenceError, MsgCreateFailed, redact.Error(err))
	}

	s.emit(ctx, events.TaskCreated, stored.ID, createdByID, now)
	log.Info("task created",
		slog.String("task_id", stored.ID.String()),
		slog.String("assigned_to", stored.AssignedToID.String()))

	return envelope.OK(s.toDTO(ctx, stored, now, log), MsgTaskCreated)
}

// Update implements TaskService.Update
func (s *TaskServiceImpl) Update(ctx context.Context, in UpdateTaskInput) envelope.Response[*TaskDTO] {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("task_id", in.ID.String()))
	now := s.timeFunc()

	task, err := s.tasks.GetByID(ctx, in.ID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return taskNotFound[*TaskDTO]()
		}
		log.Error("failed to load task for update", slog.String("error", redact.Error(err)))
		return envelope.Fail[*TaskDTO](envelope.PersistenceError, MsgUpdateFailed, redact.Error(err))
	}

	completed := applyUpdate(task, in, now)
	if err := task.Validate(); err != nil {
		return envelope.Fail[*TaskDTO](envelope.ValidationFailed, MsgTaskInvalid, err.Error())
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		// deleted between the read and the write
		if store.IsNotFoundError(err) {
			return taskNotFound[*TaskDTO]()
		}
		log.Error("failed to update task", slog.String("error", redact.Error(err)))
		return envelope.Fail[*TaskDTO](envelope.PersistenceError, MsgUpdateFailed, redact.Error(err))
	}

	stored, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil {
		log.Error("failed to read back updated task", slog.String("error", redact.Error(err)))
		return envelope.Fail[*TaskDTO](envelope.PersistenceError, MsgUpdateFailed, redact.Error(err))
	}

	actor := events.ActorFromContext(ctx)
	s.emit(ctx, events.TaskUpdated, stored.ID, actor, now)
	if completed {
		s.emit(ctx, events.TaskCompleted, stored.ID, actor, now)
	}
	log.Info("task updated",
		slog.String("status", stored.Status.String()),
		slog.Bool("completed", completed))

	return envelope.OK(s.toDTO(ctx, stored, now, log), MsgTaskUpdated)
}

// Delete implements TaskService.Delete
func (s *TaskServiceImpl) Delete(ctx context.Context, id uuid.UUID) envelope.Response[bool] {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("task_id", id.String()))
	now := s.timeFunc()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return taskNotFound[bool]()
		}
		log.Error("failed to load task for delete", slog.String("error", redact.Error(err)))
		return envelope.Fail[bool](envelope.PersistenceError, MsgDeleteFailed, redact.Error(err))
	}

	updatedAt := now.UTC()
	task.IsDeleted = true
	task.UpdatedAt = &updatedAt

	if err := s.tasks.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return taskNotFound[bool]()
		}
		log.Error("failed to delete task", slog.String("error", redact.Error(err)))
		return envelope.Fail[bool](envelope.PersistenceError, MsgDeleteFailed, redact.Error(err))
	}

	s.emit(ctx, events.TaskDeleted, id, events.ActorFromContext(ctx), now)
	log.Info("task deleted")

	return envelope.OK(true, MsgTaskDeleted)
}

// GetByID implements TaskService.GetByID
func (s *TaskServiceImpl) GetByID(ctx context.Context, id uuid.UUID) envelope.Response[*TaskDTO] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return taskNotFound[*TaskDTO]()
		}
		log.Error("failed to get task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return envelope.Fail[*TaskDTO](envelope.PersistenceError, MsgRetrieveFailed, redact.Error(err))
	}

	return envelope.OK(s.toDTO(ctx, task, s.timeFunc(), log), "")
}

// GetAll implements TaskService.GetAll
func (s *TaskServiceImpl) GetAll(ctx context.Context) envelope.Response[[]TaskDTO] {
	return s.list(ctx, MsgListFailed, func() ([]*domain.Task, error) {
		return s.tasks.GetAll(ctx)
	})
}

// GetByAssignee implements TaskService.GetByAssignee
func (s *TaskServiceImpl) GetByAssignee(ctx context.Context, userID uuid.UUID) envelope.Response[[]TaskDTO] {
	return s.list(ctx, MsgListByAssigneeFailed, func() ([]*domain.Task, error) {
		return s.tasks.GetByAssignee(ctx, userID)
	})
}

// GetByStatus implements TaskService.GetByStatus
func (s *TaskServiceImpl) GetByStatus(ctx context.Context, status domain.TaskStatus) envelope.Response[[]TaskDTO] {
	return s.list(ctx, MsgListByStatusFailed, func() ([]*domain.Task, error) {
		return s.tasks.GetByStatus(ctx, status)
	})
}

// GetOverdue implements TaskService.GetOverdue
func (s *TaskServiceImpl) GetOverdue(ctx context.Context) envelope.Response[[]TaskDTO] {
	return s.list(ctx, MsgListOverdueFailed, func() ([]*domain.Task, error) {
		return s.tasks.GetOverdue(ctx, s.timeFunc())
	})
}

func (s *TaskServiceImpl) list(
	ctx context.Context,
	failMsg string,
	fetch func() ([]*domain.Task, error),
) envelope.Response[[]TaskDTO] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := fetch()
	if err != nil {
		log.Error(failMsg, slog.String("error", redact.Error(err)))
		return envelope.Fail[[]TaskDTO](envelope.PersistenceError, failMsg, redact.Error(err))
	}

	dtos := ToTaskDTOs(tasks, s.timeFunc())
	attachUsers(ctx, s.users, dtos, log)
	return envelope.OK(dtos, "")
}

func (s *TaskServiceImpl) toDTO(ctx context.Context, task *domain.Task, now time.Time, log *slog.Logger) *TaskDTO {
	dtos := []TaskDTO{ToTaskDTO(task, now)}
	attachUsers(ctx, s.users, dtos, log)
	return &dtos[0]
}

// emit publishes a lifecycle event. Failures are logged and never reach the caller.
func (s *TaskServiceImpl) emit(ctx context.Context, eventType string, taskID, actorID uuid.UUID, now time.Time) {
	event := events.NewTaskEvent(eventType, taskID, actorID, now)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType),
			slog.String("task_id", taskID.String()))
	}
}

func taskNotFound[T any]() envelope.Response[T] {
	return envelope.Fail[T](envelope.NotFound, MsgTaskNotFound, MsgTaskNotFoundDetail)
}
