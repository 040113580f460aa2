package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by AsyncEmitter.EmitEvent.
var (
	ErrEmitterClosed = errors.New("event emitter is closed")
	ErrQueueFull     = errors.New("event queue is full")
)

// AsyncConfig sizes an AsyncEmitter.
type AsyncConfig struct {
	// QueueSize is the number of events buffered ahead of the workers.
	// If zero or negative, defaults to 100.
	QueueSize int

	// WorkerCount is the number of goroutines delivering events.
	// If zero or negative, defaults to 1.
	WorkerCount int
}

type delivery struct {
	ctx   context.Context
	event *TaskEvent
}

// AsyncEmitter queues events and delivers them to another EventEmitter on
// background workers, so request handling never waits on event handlers.
// Emitting never blocks: a full queue rejects the event.
type AsyncEmitter struct {
	next    EventEmitter
	queue   chan delivery
	workers int
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool
	logger  *slog.Logger
}

var _ EventEmitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter creates an AsyncEmitter delivering to next. Call Start
// before emitting and Stop on shutdown.
func NewAsyncEmitter(next EventEmitter, config AsyncConfig, logger *slog.Logger) *AsyncEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "async_event_emitter")

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	workers := config.WorkerCount
	if workers <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		workers = 1
	}

	return &AsyncEmitter{
		next:    next,
		queue:   make(chan delivery, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the delivery workers. Calling it more than once has no effect.
func (e *AsyncEmitter) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.closed {
		return
	}
	e.started = true

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	e.logger.Info("event workers started", "worker_count", e.workers, "queue_cap", cap(e.queue))
}

// Stop rejects further events, waits for the queued ones to be delivered
// and stops the workers.
func (e *AsyncEmitter) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	started := e.started
	e.mu.Unlock()

	if !started {
		if n := len(e.queue); n > 0 {
			e.logger.Warn("dropping undelivered events", "event_count", n)
		}
		return
	}
	e.wg.Wait()
	e.logger.Info("event workers stopped")
}

// EmitEvent queues event for delivery. The context's values are kept but
// its cancellation is not, since delivery outlives the request.
func (e *AsyncEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrEmitterClosed
	}

	select {
	case e.queue <- delivery{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(e.queue))
	}
}

func (e *AsyncEmitter) worker(id int) {
	defer e.wg.Done()

	e.logger.Debug("starting worker", "worker_id", id)
	for d := range e.queue {
		if err := e.next.EmitEvent(d.ctx, d.event); err != nil {
			e.logger.Warn("event delivery failed",
				"error", err,
				"worker_id", id,
				"event_id", d.event.ID,
				"event_type", d.event.Type)
		}
	}
	e.logger.Debug("stopping worker", "worker_id", id)
}
