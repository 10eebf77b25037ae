package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a background log-generation task finished.
type Outcome string

const (
	// OutcomeCompleted marks a task that produced its log file.
	OutcomeCompleted Outcome = "completed"

	// OutcomeFailed marks a task that ended with an error.
	OutcomeFailed Outcome = "failed"
)

// TaskEvent describes a finished log-generation task. It carries the
// information subscribers need (metrics, audit logging) without a
// direct dependency on the task package.
type TaskEvent struct {
	// Handle is the task identifier that was returned to the client.
	Handle uuid.UUID `json:"handle"`

	// BuildName is the display name of the build the task worked on.
	BuildName string `json:"build_name"`

	// Outcome records whether the task completed or failed.
	Outcome Outcome `json:"outcome"`

	// Duration is the wall-clock execution time of the job.
	Duration time.Duration `json:"duration"`

	// OccurredAt is the timestamp when the event was created.
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates a TaskEvent stamped with the current time.
func NewTaskEvent(handle uuid.UUID, buildName string, outcome Outcome, duration time.Duration) TaskEvent {
	return TaskEvent{
		Handle:     handle,
		BuildName:  buildName,
		Outcome:    outcome,
		Duration:   duration,
		OccurredAt: time.Now().UTC(),
	}
}

// Handler defines an interface for components that consume task events.
// Handlers are responsible for processing events and taking appropriate
// actions, such as updating metrics.
type Handler interface {
	// HandleTaskEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleTaskEvent(ctx context.Context, event TaskEvent) error
}

// Emitter defines an interface for components that publish task events.
// This allows the task layer to announce results without direct knowledge
// of the subscribers.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	Emit(ctx context.Context, event TaskEvent) error
}
