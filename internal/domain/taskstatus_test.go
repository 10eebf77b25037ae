package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskStatusTransitions(t *testing.T) {
	t.Parallel()

	handle := uuid.New()
	pending := NewPendingTaskStatus(handle)

	assert.Equal(t, TaskStatePending, pending.State)
	assert.False(t, pending.Terminal())
	assert.Empty(t, pending.FilePath)
	assert.Empty(t, pending.ErrorMessage)

	completed := pending.Completed("/logs/castle.txt")
	assert.Equal(t, TaskStateCompleted, completed.State)
	assert.Equal(t, handle, completed.Handle)
	assert.Equal(t, "/logs/castle.txt", completed.FilePath)
	assert.Empty(t, completed.ErrorMessage)
	assert.True(t, completed.Terminal())

	failed := pending.Failed("boom")
	assert.Equal(t, TaskStateFailed, failed.State)
	assert.Equal(t, "boom", failed.ErrorMessage)
	assert.Empty(t, failed.FilePath)
	assert.True(t, failed.Terminal())

	// Deriving records never mutates the source value.
	assert.Equal(t, TaskStatePending, pending.State)
}
