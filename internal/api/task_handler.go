package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
)

// MsgIDMismatch is returned when an update's path and body IDs differ.
const MsgIDMismatch = "ID mismatch"

// createOverrides reports a failed insert as a bad request.
var createOverrides = []shared.StatusOverride{
	{Code: envelope.PersistenceError, Status: http.StatusBadRequest},
}

// TaskHandler handles task requests.
type TaskHandler struct {
	taskService service.TaskService
	queryEngine service.TaskQueryEngine
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, queryEngine service.TaskQueryEngine) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		queryEngine: queryEngine,
		validator:   newRequestValidator(),
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.taskService.GetAll(r.Context()))
}

// Query handles GET /tasks/query.
func (h *TaskHandler) Query(w http.ResponseWriter, r *http.Request) {
	q, errs := parseTaskQuery(r.URL.Query())
	if len(errs) > 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, shared.MsgValidationFailed, errs...)
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.queryEngine.Query(r.Context(), q))
}

// MyTasks handles GET /tasks/my-tasks.
func (h *TaskHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleCurrentUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.taskService.GetByAssignee(r.Context(), userID))
}

// ByUser handles GET /tasks/user/{userId}.
func (h *TaskHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlePathUUID(w, r, "userId")
	if !ok {
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.taskService.GetByAssignee(r.Context(), userID))
}

// ByStatus handles GET /tasks/status/{status}. The status may be given by
// number or by name.
func (h *TaskHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseTaskStatus(chi.URLParam(r, "status"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, shared.MsgValidationFailed, err.Error())
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.taskService.GetByStatus(r.Context(), status))
}

// Overdue handles GET /tasks/overdue.
func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.taskService.GetOverdue(r.Context()))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.taskService.GetByID(r.Context(), id))
}

// Create handles POST /tasks. The authenticated user becomes the creator.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleCurrentUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	resp := h.taskService.Create(r.Context(), service.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     domain.TaskPriority(req.Priority),
		Status:       domain.TaskStatus(req.Status),
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	}, userID)
	if resp.Success && resp.Data != nil {
		w.Header().Set("Location", "/api/tasks/"+resp.Data.ID.String())
	}
	shared.RespondWithEnvelope(w, r, http.StatusCreated, resp, createOverrides...)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, shared.MsgInvalidRequest, err)
		return
	}
	if req.ID != id {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, MsgIDMismatch)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			envelope.ValidationFailed, shared.MsgValidationFailed, shared.ValidationMessages(err)...)
		return
	}

	resp := h.taskService.Update(r.Context(), service.UpdateTaskInput{
		ID:           req.ID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     domain.TaskPriority(req.Priority),
		Status:       domain.TaskStatus(req.Status),
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	})
	shared.RespondWithEnvelope(w, r, http.StatusOK, resp)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}
	shared.RespondWithEnvelope(w, r, http.StatusOK, h.taskService.Delete(r.Context(), id))
}

// parseTaskQuery reads a TaskQuery from query-string parameters. Every
// malformed parameter yields one message.
func parseTaskQuery(values url.Values) (service.TaskQuery, []string) {
	var (
		q    service.TaskQuery
		errs []string
	)

	q.SearchTerm = strings.TrimSpace(values.Get("searchTerm"))
	q.SortBy = values.Get("sortBy")
	q.SortOrder = values.Get("sortOrder")

	if v := values.Get("status"); v != "" {
		status, err := domain.ParseTaskStatus(v)
		if err != nil {
			errs = append(errs, "status is invalid")
		} else {
			q.Status = &status
		}
	}
	if v := values.Get("priority"); v != "" {
		priority, err := domain.ParseTaskPriority(v)
		if err != nil {
			errs = append(errs, "priority is invalid")
		} else {
			q.Priority = &priority
		}
	}
	if v := values.Get("assignedToId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			errs = append(errs, "assignedToId must be a valid ID")
		} else {
			q.AssignedToID = &id
		}
	}
	if v := values.Get("isOverdue"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, "isOverdue must be true or false")
		} else {
			q.IsOverdue = &overdue
		}
	}
	if v := values.Get("pageNumber"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, "pageNumber must be a number")
		} else {
			q.PageNumber = n
		}
	}
	if v := values.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, "pageSize must be a number")
		} else {
			q.PageSize = n
		}
	}

	return q, errs
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
