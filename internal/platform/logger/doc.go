// Package logger provides structured logging functionality for the application.
//
// It uses the standard library log/slog package to emit JSON logs with a
// configurable level, and carries request-scoped loggers (enriched with
// trace identifiers) through context.Context.
package logger
