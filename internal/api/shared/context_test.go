package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctxWithTrace := SetTraceID(ctx)

	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	require.NoError(t, err)

	// Original context should remain unchanged
	assert.Empty(t, GetTraceID(ctx))
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(ctx)))
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123) // Not a string
	assert.Empty(t, GetTraceID(ctx))
}

func TestIdentityContext(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		id, ok := UserIDFromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, id)
		assert.Nil(t, ClaimsFromContext(context.Background()))
	})

	t.Run("authenticated", func(t *testing.T) {
		claims := &auth.Claims{UserID: uuid.New(), Roles: []string{"Admin"}}
		ctx := WithIdentity(context.Background(), claims)

		id, ok := UserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, claims.UserID, id)
		assert.Same(t, claims, ClaimsFromContext(ctx))
	})

	t.Run("nil user id counts as anonymous", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDContextKey, uuid.Nil)
		_, ok := UserIDFromContext(ctx)
		assert.False(t, ok)
	})
}
