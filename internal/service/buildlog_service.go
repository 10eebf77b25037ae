package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/events"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/logbuild"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/logger"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/task"
)

// LogFile locates a generated log on disk for download. Filename is the
// base name to hand to the client; Path is where the file actually lives.
type LogFile struct {
	Path     string
	Filename string
}

// JobRunner submits background jobs for asynchronous execution. Submission
// never blocks; a full queue is an error.
type JobRunner interface {
	Submit(job task.Job) error
}

// TaskRegistry records task status transitions in the shared cache.
type TaskRegistry interface {
	Create(handle uuid.UUID)
	Complete(handle uuid.UUID, filePath string)
	Fail(handle uuid.UUID, message string)
	Get(handle uuid.UUID) (domain.TaskStatus, bool)
}

// LogWriter persists rendered log content and locates written files.
type LogWriter interface {
	Write(name, content string) (string, error)
	Resolve(path string) (string, error)
}

// BuildLogService orchestrates asynchronous build-log generation: it
// resolves the build, registers a PENDING record, hands a job to the
// runner, and answers status and file queries against the registry.
type BuildLogService interface {
	// Initiate starts log generation for the referenced build and returns
	// the task handle immediately, without waiting for the job.
	// Returns store.ErrBuildNotFound when the reference resolves to no
	// build; in that case no record or job is created. A full queue still
	// yields a handle, with the record already FAILED.
	Initiate(ctx context.Context, ref domain.BuildRef) (uuid.UUID, error)

	// GetStatus returns the task's current status record.
	// Returns ErrTaskNotFound for unknown handles, including records lost
	// to cache eviction.
	GetStatus(ctx context.Context, handle uuid.UUID) (domain.TaskStatus, error)

	// GetFile locates the generated file for a completed task.
	// Returns ErrTaskNotFound, ErrTaskInProgress, ErrTaskFailed, or
	// ErrLogFileMissing depending on where the task stands.
	GetFile(ctx context.Context, handle uuid.UUID) (LogFile, error)

	// HandleJobFailure records the FAILED state and emits the failure event
	// for a job this service submitted. Install it as the runner's error
	// handler; it covers both returned errors and recovered panics.
	HandleJobFailure(job task.Job, err error)
}

// buildLogServiceImpl implements the BuildLogService interface
type buildLogServiceImpl struct {
	builds   BuildService
	store    store.BuildStore
	registry TaskRegistry
	runner   JobRunner
	writer   LogWriter
	emitter  events.Emitter
	logger   *slog.Logger
}

// NewBuildLogService creates a new BuildLogService.
// It returns an error if any of the required dependencies are nil.
func NewBuildLogService(
	builds BuildService,
	buildStore store.BuildStore,
	registry TaskRegistry,
	runner JobRunner,
	writer LogWriter,
	emitter events.Emitter,
	logger *slog.Logger,
) (BuildLogService, error) {
	if builds == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "builds cannot be nil"}
	}
	if buildStore == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "buildStore cannot be nil"}
	}
	if registry == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "registry cannot be nil"}
	}
	if runner == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "runner cannot be nil"}
	}
	if writer == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "writer cannot be nil"}
	}
	if emitter == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "emitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &buildLogServiceImpl{
		builds:   builds,
		store:    buildStore,
		registry: registry,
		runner:   runner,
		writer:   writer,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "build_log_service")),
	}, nil
}

// Initiate implements BuildLogService.Initiate.
func (s *buildLogServiceImpl) Initiate(ctx context.Context, ref domain.BuildRef) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	build, err := s.builds.GetBuild(ctx, ref)
	if err != nil {
		// Unresolvable identifiers create no record and no job.
		return uuid.Nil, err
	}

	handle := uuid.New()
	s.registry.Create(handle)

	job := &generateLogJob{
		handle:    handle,
		buildID:   build.ID,
		buildName: build.Name,
		store:     s.store,
		registry:  s.registry,
		writer:    s.writer,
		emitter:   s.emitter,
		logger:    s.logger,
	}

	if err := s.runner.Submit(job); err != nil {
		// The client still gets a pollable handle; it reports FAILED.
		s.registry.Fail(handle, fmt.Sprintf("failed to queue log generation: %v", err))
		s.emitFinished(ctx, handle, build.Name, events.OutcomeFailed, 0)
		log.Warn("log generation job rejected at submit",
			"handle", handle,
			"build_id", build.ID,
			"error", err)
		return handle, nil
	}

	log.Info("log generation initiated",
		"handle", handle,
		"build_id", build.ID,
		"build_name", build.Name)
	return handle, nil
}

// GetStatus implements BuildLogService.GetStatus.
func (s *buildLogServiceImpl) GetStatus(ctx context.Context, handle uuid.UUID) (domain.TaskStatus, error) {
	status, ok := s.registry.Get(handle)
	if !ok {
		return domain.TaskStatus{}, ErrTaskNotFound
	}
	return status, nil
}

// GetFile implements BuildLogService.GetFile.
func (s *buildLogServiceImpl) GetFile(ctx context.Context, handle uuid.UUID) (LogFile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	status, ok := s.registry.Get(handle)
	if !ok {
		return LogFile{}, ErrTaskNotFound
	}

	switch status.State {
	case domain.TaskStatePending:
		return LogFile{}, ErrTaskInProgress
	case domain.TaskStateFailed:
		return LogFile{}, fmt.Errorf("%w: %s", ErrTaskFailed, status.ErrorMessage)
	}

	filename, err := s.writer.Resolve(status.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("log file recorded as completed but missing from disk",
				"handle", handle,
				"path", status.FilePath)
			return LogFile{}, ErrLogFileMissing
		}
		return LogFile{}, NewBuildServiceError("get_log_file", "failed to stat log file", err)
	}

	return LogFile{Path: status.FilePath, Filename: filename}, nil
}

// HandleJobFailure implements BuildLogService.HandleJobFailure.
func (s *buildLogServiceImpl) HandleJobFailure(job task.Job, err error) {
	genJob, ok := job.(*generateLogJob)
	if !ok {
		s.logger.Error("failure reported for unknown job type",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"error", err)
		return
	}

	s.registry.Fail(genJob.handle, err.Error())

	var duration time.Duration
	if !genJob.startedAt.IsZero() {
		duration = time.Since(genJob.startedAt)
	}
	s.emitFinished(context.Background(), genJob.handle, genJob.buildName, events.OutcomeFailed, duration)
}

// emitFinished publishes a task lifecycle event. Emission failures are
// logged and swallowed; they must not disturb the task pipeline.
func (s *buildLogServiceImpl) emitFinished(
	ctx context.Context,
	handle uuid.UUID,
	buildName string,
	outcome events.Outcome,
	duration time.Duration,
) {
	event := events.NewTaskEvent(handle, buildName, outcome, duration)
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Warn("failed to emit task event",
			"handle", handle,
			"outcome", outcome,
			"error", err)
	}
}

// generateLogJob is the unit of work the orchestrator hands to the runner:
// re-resolve the build, render its log, write the file, record the result.
// Failures surface as returned errors; the runner routes them to
// HandleJobFailure.
type generateLogJob struct {
	handle    uuid.UUID
	buildID   int64
	buildName string
	store     store.BuildStore
	registry  TaskRegistry
	writer    LogWriter
	emitter   events.Emitter
	logger    *slog.Logger
	startedAt time.Time
}

// ID implements task.Job.
func (j *generateLogJob) ID() uuid.UUID { return j.handle }

// Type implements task.Job.
func (j *generateLogJob) Type() string { return "generate_log" }

// Execute implements task.Job. It reads the build fresh from the store so
// the log reflects the state at execution time, not at submission.
func (j *generateLogJob) Execute(ctx context.Context) error {
	j.startedAt = time.Now()

	build, err := j.store.GetByID(ctx, j.buildID)
	if err != nil {
		return fmt.Errorf("resolving build %d: %w", j.buildID, err)
	}

	content := logbuild.Render(build)
	path, err := j.writer.Write(logbuild.Filename(build.Name, j.handle), content)
	if err != nil {
		return fmt.Errorf("writing log file: %w", err)
	}

	j.registry.Complete(j.handle, path)

	event := events.NewTaskEvent(j.handle, j.buildName, events.OutcomeCompleted, time.Since(j.startedAt))
	if err := j.emitter.Emit(ctx, event); err != nil {
		j.logger.Warn("failed to emit task event",
			"handle", j.handle,
			"outcome", events.OutcomeCompleted,
			"error", err)
	}
	return nil
}
