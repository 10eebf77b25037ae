package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors returned by Submit.
var (
	// ErrQueueFull means the bounded job queue cannot take another job right
	// now. Submission never blocks waiting for room.
	ErrQueueFull = errors.New("job queue is full")

	// ErrRunnerClosed means shutdown has begun and no further jobs are
	// accepted.
	ErrRunnerClosed = errors.New("job runner is closed")
)

// Job represents a unit of background work to be processed.
type Job interface {
	// ID returns the job's unique handle.
	ID() uuid.UUID

	// Type returns the job type identifier.
	Type() string

	// Execute runs the job logic.
	Execute(ctx context.Context) error
}

// RunnerConfig holds configuration for the job runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue.
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 5,
		QueueSize:   25,
	}
}

// Runner processes jobs on a fixed pool of worker goroutines fed by a
// bounded queue. Jobs run at most once and are not persisted: a queued job
// that never started is dropped at shutdown, and callers own what a
// submission failure means for the job's status record.
type Runner struct {
	jobs       chan Job
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger

	// errHandler is called when a job execution fails.
	// If nil, failures are only logged.
	errHandler func(job Job, err error)

	mu     sync.Mutex
	closed bool
}

// NewRunner creates a new Runner. Non-positive config values fall back to
// the defaults with a warning. If logger is nil, a default logger will be
// used.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "job_runner"))

	defaults := DefaultRunnerConfig()
	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count, using default",
			slog.Int("specified_count", config.WorkerCount),
			slog.Int("default_count", defaults.WorkerCount))
		config.WorkerCount = defaults.WorkerCount
	}
	if config.QueueSize <= 0 {
		logger.Warn("invalid queue size, using default",
			slog.Int("specified_size", config.QueueSize),
			slog.Int("default_size", defaults.QueueSize))
		config.QueueSize = defaults.QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		jobs:       make(chan Job, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
	}
}

// SetErrorHandler installs a handler for job execution failures, including
// recovered panics. Must be called before Start.
func (r *Runner) SetErrorHandler(handler func(job Job, err error)) {
	r.errHandler = handler
}

// Submit adds a new job to the queue without ever blocking the caller.
// Returns ErrQueueFull when the buffer has no room and ErrRunnerClosed once
// shutdown has begun.
func (r *Runner) Submit(job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	select {
	case r.jobs <- job:
		r.logger.Debug("job enqueued",
			slog.String("job_id", job.ID().String()),
			slog.String("job_type", job.Type()),
			slog.Int("queue_len", len(r.jobs)),
			slog.Int("queue_cap", cap(r.jobs)))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(r.jobs))
	}
}

// Start launches the worker goroutines.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.logger.Info("job runner started",
		slog.Int("worker_count", r.config.WorkerCount),
		slog.Int("queue_cap", cap(r.jobs)))
}

// Stop gracefully shuts down the runner: further submissions fail with
// ErrRunnerClosed, workers stop picking up queued jobs, and Stop returns
// once in-flight jobs have finished. Safe to call more than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cancelFunc()
	r.wg.Wait()
	close(r.jobs)

	r.logger.Info("job runner stopped")
}

// worker consumes jobs from the queue until shutdown.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case job, ok := <-r.jobs:
			if !ok {
				r.logger.Debug("job channel closed, stopping worker", slog.Int("worker_id", id))
				return
			}

			r.process(job, id)
		}
	}
}

// process handles execution of a single job.
func (r *Runner) process(job Job, workerID int) {
	logger := r.logger.With(
		slog.String("job_id", job.ID().String()),
		slog.String("job_type", job.Type()),
		slog.Int("worker_id", workerID),
	)

	logger.Info("processing job")
	start := time.Now()

	err := r.execute(job)
	duration := time.Since(start)

	if err != nil {
		logger.Error("job execution failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))

		if r.errHandler != nil {
			r.errHandler(job, err)
		}
		return
	}

	logger.Info("job completed", slog.Duration("duration", duration))
}

// execute runs the job inside the catch boundary: a panic becomes an
// ordinary error, so a failing job can never take down its worker.
func (r *Runner) execute(job Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
	}()

	// Jobs are never cancelled once started; shutdown waits for them.
	return job.Execute(context.Background())
}
