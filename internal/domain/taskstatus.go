package domain

import (
	"github.com/google/uuid"
)

// TaskState is the lifecycle state of a log-generation task. PENDING is the
// only non-terminal state; COMPLETED and FAILED are terminal and a record in
// either never changes again.
type TaskState string

// Task state values, as exposed on the wire.
const (
	TaskStatePending   TaskState = "PENDING"
	TaskStateCompleted TaskState = "COMPLETED"
	TaskStateFailed    TaskState = "FAILED"
)

// TaskStatus is the record tracking one log-generation request. FilePath is
// set if and only if the state is COMPLETED; ErrorMessage only when FAILED.
// Records are immutable values: state changes replace the whole record in
// the registry rather than mutating it in place.
type TaskStatus struct {
	Handle       uuid.UUID `json:"taskId"`
	State        TaskState `json:"status"`
	FilePath     string    `json:"filePath,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// NewPendingTaskStatus returns the initial record for a freshly initiated
// task.
func NewPendingTaskStatus(handle uuid.UUID) TaskStatus {
	return TaskStatus{Handle: handle, State: TaskStatePending}
}

// Completed derives the terminal success record carrying the written file's
// path.
func (s TaskStatus) Completed(filePath string) TaskStatus {
	return TaskStatus{Handle: s.Handle, State: TaskStateCompleted, FilePath: filePath}
}

// Failed derives the terminal failure record carrying the captured message.
func (s TaskStatus) Failed(message string) TaskStatus {
	return TaskStatus{Handle: s.Handle, State: TaskStateFailed, ErrorMessage: message}
}

// Terminal reports whether the record can never change again.
func (s TaskStatus) Terminal() bool {
	return s.State == TaskStateCompleted || s.State == TaskStateFailed
}
