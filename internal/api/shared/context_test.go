package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctxWithTrace := SetTraceID(ctx)
	traceID := GetTraceID(ctxWithTrace)
	assert.NotEmpty(t, traceID)
	assert.Len(t, traceID, 32, "trace ID should be 32 hex characters")

	// The original context is untouched.
	assert.Empty(t, GetTraceID(ctx))
}

func TestTraceIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GetTraceID(SetTraceID(context.Background()))
		assert.False(t, seen[id], "trace ID repeated: %s", id)
		seen[id] = true
	}
}

func TestGetTraceIDWithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestGetPrincipal(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		_, ok := GetPrincipal(context.Background())
		assert.False(t, ok)
	})

	t.Run("empty string", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), PrincipalContextKey, "")
		_, ok := GetPrincipal(ctx)
		assert.False(t, ok)
	})

	t.Run("set", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), PrincipalContextKey, "admin")
		principal, ok := GetPrincipal(ctx)
		assert.True(t, ok)
		assert.Equal(t, "admin", principal)
	})
}
