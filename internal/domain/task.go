package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskPriority ranks how urgent a task is.
type TaskPriority int

// Possible task priorities.
const (
	PriorityLow    TaskPriority = 1
	PriorityMedium TaskPriority = 2
	PriorityHigh   TaskPriority = 3
	PriorityUrgent TaskPriority = 4
)

// TaskStatus is the workflow state of a task.
type TaskStatus int

// Possible task statuses.
const (
	StatusToDo       TaskStatus = 1
	StatusInProgress TaskStatus = 2
	StatusInReview   TaskStatus = 3
	StatusCompleted  TaskStatus = 4
	StatusCancelled  TaskStatus = 5
)

// Task validation errors
var (
	ErrEmptyTaskID         = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle      = errors.New("task title cannot be empty")
	ErrEmptyTaskAssignee   = errors.New("task assignee cannot be empty")
	ErrEmptyTaskCreator    = errors.New("task creator cannot be empty")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
)

var priorityNames = map[TaskPriority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

var statusNames = map[TaskStatus]string{
	StatusToDo:       "ToDo",
	StatusInProgress: "InProgress",
	StatusInReview:   "InReview",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

// IsValid reports whether p is one of the defined priorities.
func (p TaskPriority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p TaskPriority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "Unknown"
}

// ParseTaskPriority accepts a priority number ("3") or name ("high").
func ParseTaskPriority(s string) (TaskPriority, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if p := TaskPriority(n); p.IsValid() {
			return p, nil
		}
		return 0, ErrInvalidTaskPriority
	}
	for p, name := range priorityNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}
	return 0, ErrInvalidTaskPriority
}

// IsValid reports whether s is one of the defined statuses.
func (s TaskStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s TaskStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether no further work is expected on a task in this
// status. Terminal tasks are never overdue.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseTaskStatus accepts a status number ("4") or name ("completed").
func ParseTaskStatus(s string) (TaskStatus, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if st := TaskStatus(n); st.IsValid() {
			return st, nil
		}
		return 0, ErrInvalidTaskStatus
	}
	for st, name := range statusNames {
		if strings.EqualFold(name, s) {
			return st, nil
		}
	}
	return 0, ErrInvalidTaskStatus
}

// Task is a unit of work created by one user and assigned to another (or
// the same) user. Tasks are soft-deleted: IsDeleted hides them from every
// read but the row is kept.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	DueDate      *time.Time   `json:"dueDate,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`
	AssignedToID uuid.UUID    `json:"assignedToId"`
	CreatedByID  uuid.UUID    `json:"createdById"`
	IsDeleted    bool         `json:"-"`
}

// NewTask creates a task with a fresh ID, owned by createdBy and created at now.
func NewTask(
	title, description string,
	priority TaskPriority,
	status TaskStatus,
	dueDate *time.Time,
	assignedTo, createdBy uuid.UUID,
	now time.Time,
) (*Task, error) {
	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		Priority:     priority,
		Status:       status,
		DueDate:      dueDate,
		CreatedAt:    now.UTC(),
		AssignedToID: assignedTo,
		CreatedByID:  createdBy,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the structural invariants of a task.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if !t.Priority.IsValid() {
		return ErrInvalidTaskPriority
	}
	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}
	if t.AssignedToID == uuid.Nil {
		return ErrEmptyTaskAssignee
	}
	if t.CreatedByID == uuid.Nil {
		return ErrEmptyTaskCreator
	}
	return nil
}

// IsOverdue reports whether the task has a due date before now and is not
// in a terminal status.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Status.IsTerminal()
}

// ApplyStatus moves the task to status at time now. Entering Completed
// stamps CompletedAt the first time only; leaving Completed never clears it.
// It reports whether this call stamped CompletedAt.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) bool {
	t.Status = status
	if status == StatusCompleted && t.CompletedAt == nil {
		completed := now.UTC()
		t.CompletedAt = &completed
		return true
	}
	return false
}
