package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// UserSummary is the display copy of a user embedded in a TaskDTO.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"userName"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// TaskDTO is the outward view of a task.
type TaskDTO struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     domain.TaskPriority `json:"priority"`
	PriorityName string              `json:"priorityName"`
	Status       domain.TaskStatus   `json:"status"`
	StatusName   string              `json:"statusName"`
	DueDate      *time.Time          `json:"dueDate"`
	CompletedAt  *time.Time          `json:"completedAt"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    *time.Time          `json:"updatedAt"`
	AssignedToID uuid.UUID           `json:"assignedToId"`
	AssignedTo   *UserSummary        `json:"assignedTo,omitempty"`
	CreatedByID  uuid.UUID           `json:"createdById"`
	CreatedBy    *UserSummary        `json:"createdBy,omitempty"`
	IsOverdue    bool                `json:"isOverdue"`
}

// CreateTaskInput carries the caller-supplied fields of a new task.
type CreateTaskInput struct {
	Title        string
	Description  string
	Priority     domain.TaskPriority
	Status       domain.TaskStatus
	DueDate      *time.Time
	AssignedToID uuid.UUID
}

// UpdateTaskInput carries the full replacement of a task's mutable fields.
type UpdateTaskInput struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Priority     domain.TaskPriority
	Status       domain.TaskStatus
	DueDate      *time.Time
	AssignedToID uuid.UUID
}

// ToTaskDTO maps a task to its outward view. IsOverdue is evaluated at now.
func ToTaskDTO(task *domain.Task, now time.Time) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     task.Priority,
		PriorityName: task.Priority.String(),
		Status:       task.Status,
		StatusName:   task.Status.String(),
		DueDate:      task.DueDate,
		CompletedAt:  task.CompletedAt,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		AssignedToID: task.AssignedToID,
		CreatedByID:  task.CreatedByID,
		IsOverdue:    task.IsOverdue(now),
	}
}

// ToTaskDTOs maps tasks in order. The result is never nil.
func ToTaskDTOs(tasks []*domain.Task, now time.Time) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, ToTaskDTO(task, now))
	}
	return dtos
}

// newTaskFromInput builds a task owned by createdBy. It sets only the fields
// the caller may choose plus the ownership and creation stamp.
func newTaskFromInput(in CreateTaskInput, createdBy uuid.UUID, now time.Time) (*domain.Task, error) {
	return domain.NewTask(
		strings.TrimSpace(in.Title),
		in.Description,
		in.Priority,
		in.Status,
		utcPtr(in.DueDate),
		in.AssignedToID,
		createdBy,
		now,
	)
}

// applyUpdate merges in into task. ID, CreatedAt, CreatedByID and IsDeleted
// are left alone; CompletedAt only changes through ApplyStatus. It reports
// whether the task was completed by this update.
func applyUpdate(task *domain.Task, in UpdateTaskInput, now time.Time) bool {
	updatedAt := now.UTC()

	task.Title = strings.TrimSpace(in.Title)
	task.Description = in.Description
	task.Priority = in.Priority
	task.DueDate = utcPtr(in.DueDate)
	task.AssignedToID = in.AssignedToID
	task.UpdatedAt = &updatedAt

	return task.ApplyStatus(in.Status, now)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// attachUsers fills AssignedTo and CreatedBy from the user store. It is
// best-effort: a lookup failure is logged and the summaries stay empty.
func attachUsers(ctx context.Context, users store.UserStore, dtos []TaskDTO, log *slog.Logger) {
	if users == nil || len(dtos) == 0 {
		return
	}

	seen := make(map[uuid.UUID]struct{}, len(dtos)*2)
	ids := make([]uuid.UUID, 0, len(dtos)*2)
	for _, dto := range dtos {
		for _, id := range []uuid.UUID{dto.AssignedToID, dto.CreatedByID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	found, err := users.GetByIDs(ctx, ids)
	if err != nil {
		log.Warn("failed to load task users",
			slog.String("error", redact.Error(err)),
			slog.Int("user_count", len(ids)))
		return
	}

	for i := range dtos {
		dtos[i].AssignedTo = summarize(found[dtos[i].AssignedToID])
		dtos[i].CreatedBy = summarize(found[dtos[i].CreatedByID])
	}
}

func summarize(user *domain.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
