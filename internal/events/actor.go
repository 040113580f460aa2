package events

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// WithActor records the user responsible for changes made under ctx.
func WithActor(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor set by WithActor, or uuid.Nil.
func ActorFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(actorKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
