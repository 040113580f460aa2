package service

// Envelope messages returned by the task services.
const (
	MsgTaskCreated = "Task created successfully"
	MsgTaskUpdated = "Task updated successfully"
	MsgTaskDeleted = "Task deleted successfully"

	MsgTaskNotFound       = "Task not found"
	MsgTaskNotFoundDetail = "No task found with the provided ID"
	MsgTaskInvalid        = "Task validation failed"

	MsgCreateFailed         = "Failed to create task"
	MsgUpdateFailed         = "Failed to update task"
	MsgDeleteFailed         = "Failed to delete task"
	MsgRetrieveFailed       = "Failed to retrieve task"
	MsgListFailed           = "Failed to retrieve tasks"
	MsgListByAssigneeFailed = "Failed to retrieve user tasks"
	MsgListByStatusFailed   = "Failed to retrieve tasks by status"
	MsgListOverdueFailed    = "Failed to retrieve overdue tasks"
)
