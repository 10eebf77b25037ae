package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/events"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/task"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// MockBuildStore mocks the store.BuildStore interface
type MockBuildStore struct {
	mock.Mock
}

var _ store.BuildStore = (*MockBuildStore)(nil)

func (m *MockBuildStore) Create(ctx context.Context, build *domain.Build) error {
	args := m.Called(ctx, build)
	return args.Error(0)
}

func (m *MockBuildStore) GetByID(ctx context.Context, id int64) (*domain.Build, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Build), args.Error(1)
}

func (m *MockBuildStore) GetByName(ctx context.Context, name string) (*domain.Build, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Build), args.Error(1)
}

func (m *MockBuildStore) List(ctx context.Context, filter store.BuildFilter) ([]*domain.Build, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Build), args.Error(1)
}

func (m *MockBuildStore) ListDistinct(
	ctx context.Context,
	field store.MetadataField,
) ([]string, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBuildStore) Update(ctx context.Context, build *domain.Build) error {
	args := m.Called(ctx, build)
	return args.Error(0)
}

func (m *MockBuildStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockCacheMetrics counts hit and miss recordings.
type mockCacheMetrics struct {
	mu     sync.Mutex
	hits   int
	misses int
}

var _ CacheMetrics = (*mockCacheMetrics)(nil)

func (m *mockCacheMetrics) RecordCacheHit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
}

func (m *mockCacheMetrics) RecordCacheMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
}

func (m *mockCacheMetrics) counts() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// captureRunner records submitted jobs without executing them.
type captureRunner struct {
	mu        sync.Mutex
	submitted []task.Job
	submitErr error
}

var _ JobRunner = (*captureRunner)(nil)

func (r *captureRunner) Submit(job task.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.submitErr != nil {
		return r.submitErr
	}
	r.submitted = append(r.submitted, job)
	return nil
}

func (r *captureRunner) jobs() []task.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]task.Job, len(r.submitted))
	copy(out, r.submitted)
	return out
}

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	mu     sync.Mutex
	events []events.TaskEvent
}

var _ events.Emitter = (*captureEmitter)(nil)

func (e *captureEmitter) Emit(_ context.Context, event events.TaskEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *captureEmitter) all() []events.TaskEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]events.TaskEvent, len(e.events))
	copy(out, e.events)
	return out
}
