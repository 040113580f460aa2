package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectingEmitter records every event it receives.
type collectingEmitter struct {
	mu     sync.Mutex
	events []*TaskEvent
	actors []uuid.UUID
	err    error
}

func (c *collectingEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	c.actors = append(c.actors, ActorFromContext(ctx))
	return c.err
}

func (c *collectingEmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestAsyncEmitter_DeliversAllEventsBeforeStopReturns(t *testing.T) {
	t.Parallel()

	next := &collectingEmitter{}
	emitter := NewAsyncEmitter(next, AsyncConfig{QueueSize: 100, WorkerCount: 4}, nil)
	emitter.Start()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, emitter.EmitEvent(context.Background(), newEvent()))
		}()
	}
	wg.Wait()
	emitter.Stop()

	assert.Equal(t, 50, next.count())
}

func TestAsyncEmitter_KeepsContextValuesAfterCancel(t *testing.T) {
	t.Parallel()

	next := &collectingEmitter{}
	emitter := NewAsyncEmitter(next, AsyncConfig{QueueSize: 1, WorkerCount: 1}, nil)

	actor := uuid.New()
	ctx, cancel := context.WithCancel(WithActor(context.Background(), actor))
	require.NoError(t, emitter.EmitEvent(ctx, newEvent()))
	cancel()

	emitter.Start()
	emitter.Stop()

	require.Equal(t, 1, next.count())
	assert.Equal(t, actor, next.actors[0])
}

func TestAsyncEmitter_RejectsWhenFull(t *testing.T) {
	t.Parallel()

	emitter := NewAsyncEmitter(&collectingEmitter{}, AsyncConfig{QueueSize: 1, WorkerCount: 1}, nil)

	require.NoError(t, emitter.EmitEvent(context.Background(), newEvent()))
	err := emitter.EmitEvent(context.Background(), newEvent())

	assert.True(t, errors.Is(err, ErrQueueFull))
	emitter.Stop()
}

func TestAsyncEmitter_RejectsAfterStop(t *testing.T) {
	t.Parallel()

	emitter := NewAsyncEmitter(&collectingEmitter{}, AsyncConfig{}, nil)
	emitter.Start()
	emitter.Stop()
	emitter.Stop()

	assert.ErrorIs(t, emitter.EmitEvent(context.Background(), newEvent()), ErrEmitterClosed)
}

func TestAsyncEmitter_DeliveryErrorsDoNotStopWorkers(t *testing.T) {
	t.Parallel()

	next := &collectingEmitter{err: errors.New("handler failed")}
	emitter := NewAsyncEmitter(next, AsyncConfig{QueueSize: 10, WorkerCount: 1}, nil)
	emitter.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, emitter.EmitEvent(context.Background(), newEvent()))
	}
	emitter.Stop()

	assert.Equal(t, 3, next.count())
}
