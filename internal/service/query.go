package service

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// Paging limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Sort keys accepted by TaskQuery.SortBy, compared case-insensitively.
const (
	SortByTitle     = "title"
	SortByPriority  = "priority"
	SortByStatus    = "status"
	SortByDueDate   = "duedate"
	SortByCreatedAt = "createdat"
)

// SortAscending is the only SortOrder value that sorts ascending.
const SortAscending = "asc"

// TaskQuery selects, orders and pages tasks. Nil filters match everything.
type TaskQuery struct {
	SearchTerm   string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	AssignedToID *uuid.UUID
	// IsOverdue restricts to overdue tasks when true; false or nil does not filter.
	IsOverdue  *bool
	SortBy     string
	SortOrder  string
	PageNumber int
	PageSize   int
}

// PagedResult is one page of a larger result.
type PagedResult[T any] struct {
	Items           []T  `json:"items"`
	TotalCount      int  `json:"totalCount"`
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// TaskQueryEngine answers filtered, sorted, paginated task queries.
type TaskQueryEngine interface {
	Query(ctx context.Context, q TaskQuery) envelope.Response[*PagedResult[TaskDTO]]
}

// TaskQueryEngineImpl evaluates queries in memory over TaskStore.GetAll.
type TaskQueryEngineImpl struct {
	tasks    store.TaskStore
	users    store.UserStore
	timeFunc func() time.Time
	logger   *slog.Logger
}

var _ TaskQueryEngine = (*TaskQueryEngineImpl)(nil)

// NewTaskQueryEngine creates a TaskQueryEngine. users may be nil.
func NewTaskQueryEngine(tasks store.TaskStore, users store.UserStore, logger *slog.Logger) (*TaskQueryEngineImpl, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskQueryEngineImpl{
		tasks:    tasks,
		users:    users,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "task_query_engine")),
	}, nil
}

// Query implements TaskQueryEngine.Query
func (e *TaskQueryEngineImpl) Query(ctx context.Context, q TaskQuery) envelope.Response[*PagedResult[TaskDTO]] {
	log := logger.FromContextOrDefault(ctx, e.logger)

	tasks, err := e.tasks.GetAll(ctx)
	if err != nil {
		log.Error("failed to load tasks for query", slog.String("error", redact.Error(err)))
		return envelope.Fail[*PagedResult[TaskDTO]](envelope.QueryFailed, MsgListFailed, redact.Error(err))
	}

	now := e.timeFunc()
	page := applyQuery(tasks, q, now)

	result := &PagedResult[TaskDTO]{
		Items:           ToTaskDTOs(page.items, now),
		TotalCount:      page.total,
		PageNumber:      page.number,
		PageSize:        page.size,
		TotalPages:      page.totalPages,
		HasPreviousPage: page.number > 1,
		HasNextPage:     page.number < page.totalPages,
	}
	attachUsers(ctx, e.users, result.Items, log)

	log.Debug("task query evaluated",
		slog.Int("total_count", result.TotalCount),
		slog.Int("page_number", result.PageNumber),
		slog.Int("page_size", result.PageSize))

	return envelope.OK(result, "")
}

type taskPage struct {
	items      []*domain.Task
	total      int
	number     int
	size       int
	totalPages int
}

// applyQuery filters, sorts and pages tasks. It does not modify the input slice.
func applyQuery(tasks []*domain.Task, q TaskQuery, now time.Time) taskPage {
	matched := make([]*domain.Task, 0, len(tasks))
	term := strings.ToLower(strings.TrimSpace(q.SearchTerm))
	for _, t := range tasks {
		if term != "" &&
			!strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			continue
		}
		if q.Status != nil && t.Status != *q.Status {
			continue
		}
		if q.Priority != nil && t.Priority != *q.Priority {
			continue
		}
		if q.AssignedToID != nil && t.AssignedToID != *q.AssignedToID {
			continue
		}
		if q.IsOverdue != nil && *q.IsOverdue && !t.IsOverdue(now) {
			continue
		}
		matched = append(matched, t)
	}

	primary := sortKey(q.SortBy)
	desc := !strings.EqualFold(strings.TrimSpace(q.SortOrder), SortAscending)
	slices.SortFunc(matched, func(a, b *domain.Task) int {
		c := primary(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	number := q.PageNumber
	if number < 1 {
		number = 1
	}
	size := q.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	total := len(matched)
	totalPages := (total + size - 1) / size

	// Pages past the end are empty. Compared before multiplying so the
	// offset cannot overflow.
	start := total
	if number-1 <= total/size {
		start = min((number-1)*size, total)
	}
	end := min(start+size, total)

	return taskPage{
		items:      matched[start:end],
		total:      total,
		number:     number,
		size:       size,
		totalPages: totalPages,
	}
}

func sortKey(sortBy string) func(a, b *domain.Task) int {
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortByTitle:
		return func(a, b *domain.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortByPriority:
		return func(a, b *domain.Task) int { return cmp.Compare(a.Priority, b.Priority) }
	case SortByStatus:
		return func(a, b *domain.Task) int { return cmp.Compare(a.Status, b.Status) }
	case SortByDueDate:
		return compareDueDates
	default:
		return func(a, b *domain.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// compareDueDates orders tasks without a due date before dated ones.
func compareDueDates(a, b *domain.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return -1
	case b.DueDate == nil:
		return 1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}
