package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTaskHandler() (*TaskHandler, *mockTaskService, *mockQueryEngine) {
	tasks := &mockTaskService{}
	engine := &mockQueryEngine{}
	return NewTaskHandler(tasks, engine), tasks, engine
}

func taskBody(title string, priority int, assignee uuid.UUID, extra string) string {
	return fmt.Sprintf(`{"title":%q,"description":"","priority":%d,"status":1,"assignedToId":%q%s}`,
		title, priority, assignee, extra)
}

func TestTaskHandler_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	assignee := uuid.New()

	t.Run("created by the current user", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		created := &service.TaskDTO{ID: uuid.New(), Title: "Write report"}
		tasks.On("Create", mock.Anything, service.CreateTaskInput{
			Title:        "Write report",
			Priority:     domain.PriorityHigh,
			Status:       domain.StatusToDo,
			AssignedToID: assignee,
		}, userID).Return(envelope.OK(created, service.MsgTaskCreated))

		req := withUser(newJSONRequest(http.MethodPost, "/api/tasks", taskBody("Write report", 3, assignee, "")), userID)
		w := serve(h.Create, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/tasks/"+created.ID.String(), w.Header().Get("Location"))
		env := decodeBody[service.TaskDTO](t, w)
		assert.Equal(t, service.MsgTaskCreated, env.Message)
		tasks.AssertExpectations(t)
	})

	t.Run("persistence failure is a bad request", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("Create", mock.Anything, mock.Anything, userID).
			Return(envelope.Fail[*service.TaskDTO](envelope.PersistenceError, service.MsgCreateFailed, "insert failed"))

		req := withUser(newJSONRequest(http.MethodPost, "/api/tasks", taskBody("Write report", 3, assignee, "")), userID)
		w := serve(h.Create, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
		assert.Equal(t, envelope.PersistenceError, decodeBody[any](t, w).Code)
	})

	yesterday := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	tomorrow := time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)

	invalid := []struct {
		name     string
		body     string
		contains string
	}{
		{
			name:     "short title",
			body:     taskBody("ab", 2, assignee, ""),
			contains: "title must be at least 3 characters",
		},
		{
			name:     "priority out of range",
			body:     taskBody("Write report", 5, assignee, ""),
			contains: "priority must be at most 4",
		},
		{
			name:     "missing assignee",
			body:     taskBody("Write report", 2, uuid.Nil, ""),
			contains: "assignedToId is required",
		},
		{
			name:     "due date in the past",
			body:     taskBody("Write report", 2, assignee, fmt.Sprintf(`,"dueDate":%q`, yesterday)),
			contains: "dueDate cannot be in the past",
		},
		{
			name:     "urgent title with low priority",
			body:     taskBody("URGENT: fix prod", 1, assignee, fmt.Sprintf(`,"dueDate":%q`, tomorrow)),
			contains: "Urgent tasks cannot have low priority",
		},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, tasks, _ := newTestTaskHandler()

			req := withUser(newJSONRequest(http.MethodPost, "/api/tasks", tc.body), userID)
			w := serve(h.Create, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := decodeBody[any](t, w)
			assert.Equal(t, envelope.ValidationFailed, env.Code)
			assert.Contains(t, env.Errors, tc.contains)
			tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("urgent title with higher priority is accepted", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("Create", mock.Anything, mock.Anything, userID).
			Return(envelope.OK(&service.TaskDTO{ID: uuid.New()}, service.MsgTaskCreated))

		req := withUser(newJSONRequest(http.MethodPost, "/api/tasks", taskBody("Urgent fix", 4, assignee, "")), userID)
		w := serve(h.Create, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	assignee := uuid.New()
	body := fmt.Sprintf(`{"id":%q,"title":"Write report","priority":2,"status":4,"assignedToId":%q}`, id, assignee)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("Update", mock.Anything, service.UpdateTaskInput{
			ID:           id,
			Title:        "Write report",
			Priority:     domain.PriorityMedium,
			Status:       domain.StatusCompleted,
			AssignedToID: assignee,
		}).Return(envelope.OK(&service.TaskDTO{ID: id, Status: domain.StatusCompleted}, service.MsgTaskUpdated))

		req := withURLParams(newJSONRequest(http.MethodPut, "/api/tasks/"+id.String(), body), "id", id.String())
		w := serve(h.Update, req)

		assert.Equal(t, http.StatusOK, w.Code)
		tasks.AssertExpectations(t)
	})

	t.Run("path and body ids differ", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		other := uuid.New()

		req := withURLParams(newJSONRequest(http.MethodPut, "/api/tasks/"+other.String(), body), "id", other.String())
		w := serve(h.Update, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgIDMismatch, decodeBody[any](t, w).Message)
		tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("past due date is allowed", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("Update", mock.Anything, mock.Anything).
			Return(envelope.OK(&service.TaskDTO{ID: id}, service.MsgTaskUpdated))

		past := fmt.Sprintf(`{"id":%q,"title":"Write report","priority":2,"status":2,"assignedToId":%q,"dueDate":"2020-01-01T00:00:00Z"}`,
			id, assignee)
		req := withURLParams(newJSONRequest(http.MethodPut, "/api/tasks/"+id.String(), past), "id", id.String())
		w := serve(h.Update, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("Update", mock.Anything, mock.Anything).
			Return(envelope.Fail[*service.TaskDTO](envelope.NotFound, service.MsgTaskNotFound, service.MsgTaskNotFoundDetail))

		req := withURLParams(newJSONRequest(http.MethodPut, "/api/tasks/"+id.String(), body), "id", id.String())
		w := serve(h.Update, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_GetAndDelete(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("GetByID", mock.Anything, id).Return(envelope.OK(&service.TaskDTO{ID: id, Title: "Write report"}, ""))

		w := serve(h.Get, withURLParams(newJSONRequest(http.MethodGet, "/api/tasks/"+id.String(), ""), "id", id.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Write report", decodeBody[service.TaskDTO](t, w).Data.Title)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("Delete", mock.Anything, id).Return(envelope.OK(true, service.MsgTaskDeleted))

		w := serve(h.Delete, withURLParams(newJSONRequest(http.MethodDelete, "/api/tasks/"+id.String(), ""), "id", id.String()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeBody[bool](t, w).Data)
	})

	t.Run("delete missing task", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("Delete", mock.Anything, id).
			Return(envelope.Fail[bool](envelope.NotFound, service.MsgTaskNotFound, service.MsgTaskNotFoundDetail))

		w := serve(h.Delete, withURLParams(newJSONRequest(http.MethodDelete, "/api/tasks/"+id.String(), ""), "id", id.String()))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, decodeBody[bool](t, w).Data)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("GetByID", mock.Anything, id).
			Return(envelope.Fail[*service.TaskDTO](envelope.PersistenceError, service.MsgRetrieveFailed))

		w := serve(h.Get, withURLParams(newJSONRequest(http.MethodGet, "/api/tasks/"+id.String(), ""), "id", id.String()))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTaskHandler_Lists(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	list := envelope.OK([]service.TaskDTO{{ID: uuid.New()}}, "")

	t.Run("my tasks uses the current user", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("GetByAssignee", mock.Anything, userID).Return(list)

		w := serve(h.MyTasks, withUser(newJSONRequest(http.MethodGet, "/api/tasks/my-tasks", ""), userID))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]service.TaskDTO](t, w).Data, 1)
	})

	t.Run("by user", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("GetByAssignee", mock.Anything, userID).Return(list)

		req := withURLParams(newJSONRequest(http.MethodGet, "/api/tasks/user/"+userID.String(), ""), "userId", userID.String())
		w := serve(h.ByUser, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("by status name", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("GetByStatus", mock.Anything, domain.StatusInReview).Return(list)

		req := withURLParams(newJSONRequest(http.MethodGet, "/api/tasks/status/InReview", ""), "status", "InReview")
		w := serve(h.ByStatus, req)

		assert.Equal(t, http.StatusOK, w.Code)
		tasks.AssertExpectations(t)
	})

	t.Run("list failure", func(t *testing.T) {
		t.Parallel()
		h, tasks, _ := newTestTaskHandler()
		tasks.On("GetAll", mock.Anything).
			Return(envelope.Fail[[]service.TaskDTO](envelope.PersistenceError, service.MsgListFailed))

		w := serve(h.List, newJSONRequest(http.MethodGet, "/api/tasks", ""))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, service.MsgListFailed, decodeBody[any](t, w).Message)
	})
}

func TestTaskHandler_Query(t *testing.T) {
	t.Parallel()

	h, _, engine := newTestTaskHandler()
	assignee := uuid.New()
	status := domain.StatusInProgress
	priority := domain.PriorityHigh
	overdue := true

	engine.On("Query", mock.Anything, service.TaskQuery{
		SearchTerm:   "report",
		Status:       &status,
		Priority:     &priority,
		AssignedToID: &assignee,
		IsOverdue:    &overdue,
		SortBy:       "dueDate",
		SortOrder:    "asc",
		PageNumber:   2,
		PageSize:     5,
	}).Return(envelope.OK(&service.PagedResult[service.TaskDTO]{
		Items:      []service.TaskDTO{},
		TotalCount: 6,
		PageNumber: 2,
		PageSize:   5,
		TotalPages: 2,
	}, ""))

	params := url.Values{
		"searchTerm":   {" report "},
		"status":       {"2"},
		"priority":     {"high"},
		"assignedToId": {assignee.String()},
		"isOverdue":    {"true"},
		"sortBy":       {"dueDate"},
		"sortOrder":    {"asc"},
		"pageNumber":   {"2"},
		"pageSize":     {"5"},
	}
	w := serve(h.Query, newJSONRequest(http.MethodGet, "/api/tasks/query?"+params.Encode(), ""))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeBody[service.PagedResult[service.TaskDTO]](t, w)
	assert.Equal(t, 6, env.Data.TotalCount)
	assert.False(t, env.Data.HasNextPage)
	engine.AssertExpectations(t)
}

func TestParseTaskQuery(t *testing.T) {
	t.Parallel()

	t.Run("empty query matches everything", func(t *testing.T) {
		q, errs := parseTaskQuery(url.Values{})
		assert.Empty(t, errs)
		assert.Equal(t, service.TaskQuery{}, q)
	})

	t.Run("every malformed parameter is reported", func(t *testing.T) {
		_, errs := parseTaskQuery(url.Values{
			"status":       {"done"},
			"priority":     {"9"},
			"assignedToId": {"nobody"},
			"isOverdue":    {"maybe"},
			"pageNumber":   {"two"},
			"pageSize":     {"lots"},
		})
		assert.ElementsMatch(t, []string{
			"status is invalid",
			"priority is invalid",
			"assignedToId must be a valid ID",
			"isOverdue must be true or false",
			"pageNumber must be a number",
			"pageSize must be a number",
		}, errs)
	})

	t.Run("malformed paging leaves defaults", func(t *testing.T) {
		q, errs := parseTaskQuery(url.Values{
			"pageNumber": {"99999999999999999999"},
			"pageSize":   {"ten"},
		})
		assert.Len(t, errs, 2)
		assert.Zero(t, q.PageNumber)
		assert.Zero(t, q.PageSize)
	})

	t.Run("largest page number is passed through", func(t *testing.T) {
		q, errs := parseTaskQuery(url.Values{"pageNumber": {strconv.Itoa(math.MaxInt)}})
		assert.Empty(t, errs)
		assert.Equal(t, math.MaxInt, q.PageNumber)
	})
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	w := serve(HealthCheck, newJSONRequest(http.MethodGet, "/health", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
