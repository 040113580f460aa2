// Package events carries task lifecycle notifications from the task service
// to interested handlers.
//
// Services emit events without knowing which handlers process them. The
// primary components are:
// - TaskEvent: a single lifecycle change of a task
// - EventHandler: interface for components that react to events
// - EventEmitter: interface for components that publish events
// - AuditLogHandler: writes one structured log line per event
package events
