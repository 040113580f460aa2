package api

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// newRequestValidator returns the validator used by every handler: the
// shared field rules plus the cross-field rules of task creation.
func newRequestValidator() *validator.Validate {
	v := shared.NewValidator()
	v.RegisterStructValidation(validateCreateTask, CreateTaskRequest{})
	return v
}

// validateCreateTask rejects a Low priority on a task whose title mentions
// "urgent".
func validateCreateTask(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateTaskRequest)
	if domain.TaskPriority(req.Priority) == domain.PriorityLow &&
		strings.Contains(strings.ToLower(req.Title), "urgent") {
		sl.ReportError(req.Priority, "priority", "Priority", "urgentnotlow", "")
	}
}
