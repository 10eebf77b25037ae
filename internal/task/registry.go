package task

import (
	"log/slog"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/cache"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/google/uuid"
)

// taskEntityType namespaces task status records in the shared cache.
const taskEntityType = "Task"

// StatusRegistry tracks log-generation task records inside the shared cache
// store rather than a dedicated map, so status records and cached query
// results live under one capacity bound. A burst of unrelated cache churn
// can therefore clear in-flight records; callers treat a missing record
// exactly like an unknown handle.
//
// Terminal states are write-once. Each handle has a single writer once its
// job is queued, so the check-then-put below does not need to be atomic.
type StatusRegistry struct {
	store  *cache.Store
	logger *slog.Logger
}

// NewStatusRegistry creates a registry over the given cache store.
// If logger is nil, a default logger will be used.
func NewStatusRegistry(store *cache.Store, logger *slog.Logger) *StatusRegistry {
	if store == nil {
		panic("store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &StatusRegistry{
		store:  store,
		logger: logger.With(slog.String("component", "status_registry")),
	}
}

// Create records a fresh PENDING status for the handle.
func (r *StatusRegistry) Create(handle uuid.UUID) {
	r.store.Put(r.key(handle), domain.NewPendingTaskStatus(handle))

	r.logger.Debug("task status created",
		slog.String("task_id", handle.String()),
		slog.String("state", string(domain.TaskStatePending)))
}

// Complete writes the terminal COMPLETED record carrying the log file path.
// If the record was evicted mid-flight the write re-creates it.
func (r *StatusRegistry) Complete(handle uuid.UUID, filePath string) {
	r.finish(handle, domain.NewPendingTaskStatus(handle).Completed(filePath))
}

// Fail writes the terminal FAILED record carrying a human-readable reason.
// If the record was evicted mid-flight the write re-creates it.
func (r *StatusRegistry) Fail(handle uuid.UUID, message string) {
	r.finish(handle, domain.NewPendingTaskStatus(handle).Failed(message))
}

// Get returns the status record for the handle. A handle that was never
// created and one whose record was evicted are indistinguishable; both miss.
func (r *StatusRegistry) Get(handle uuid.UUID) (domain.TaskStatus, bool) {
	return cache.GetTyped[domain.TaskStatus](r.store, r.key(handle))
}

// finish writes a terminal record unless the handle already reached a
// terminal state.
func (r *StatusRegistry) finish(handle uuid.UUID, status domain.TaskStatus) {
	if existing, ok := r.Get(handle); ok && existing.Terminal() {
		r.logger.Warn("terminal task status write skipped",
			slog.String("task_id", handle.String()),
			slog.String("existing_state", string(existing.State)),
			slog.String("attempted_state", string(status.State)))
		return
	}

	r.store.Put(r.key(handle), status)

	r.logger.Debug("task status updated",
		slog.String("task_id", handle.String()),
		slog.String("state", string(status.State)))
}

func (r *StatusRegistry) key(handle uuid.UUID) string {
	return cache.IdentityKey(taskEntityType, handle.String())
}
