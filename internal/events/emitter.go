package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/phrazzld/taskflow-api/internal/platform/logger"
)

// ErrNilEvent is returned when a nil task event is dispatched.
var ErrNilEvent = errors.New("task event is nil")

// TaskEventDispatcher fans each task event out to its subscribed handlers,
// in subscription order, on the caller's goroutine.
type TaskEventDispatcher struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*TaskEventDispatcher)(nil)

// NewTaskEventDispatcher creates a dispatcher with no subscribers.
func NewTaskEventDispatcher(log *slog.Logger) *TaskEventDispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &TaskEventDispatcher{logger: log.With("component", "task_event_dispatcher")}
}

// Subscribe adds handler to every subsequent dispatch.
func (d *TaskEventDispatcher) Subscribe(handler EventHandler) {
	d.mu.Lock()
	d.handlers = append(d.handlers, handler)
	n := len(d.handlers)
	d.mu.Unlock()

	d.logger.Debug("task event handler subscribed", "subscriber_count", n)
}

// EmitEvent hands event to every subscriber. A failing handler does not stop
// the others; all failures are joined into the returned error.
func (d *TaskEventDispatcher) EmitEvent(ctx context.Context, event *TaskEvent) error {
	if event == nil {
		return ErrNilEvent
	}

	d.mu.RLock()
	handlers := slices.Clone(d.handlers)
	d.mu.RUnlock()

	log := logger.FromContextOrDefault(ctx, d.logger).With(
		"event_id", event.ID,
		"event_type", event.Type,
		"task_id", event.TaskID,
		"actor_id", event.ActorID)

	if len(handlers) == 0 {
		log.Debug("task event dropped: no subscribers")
		return nil
	}

	var errs []error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("task event handler failed", "error", err, "handler_index", i)
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
