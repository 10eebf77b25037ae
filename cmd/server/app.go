package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/cache"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/config"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/events"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/logbuild"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/metrics"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/postgres"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service/auth"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	buildStore store.BuildStore

	// Shared in-memory infrastructure. The cache store backs both the
	// catalog caches and the task status registry.
	cacheStore *cache.Store
	registry   *task.StatusRegistry
	runner     *task.Runner
	logWriter  *logbuild.Writer
	emitter    events.Emitter
	recorder   *metrics.Recorder

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	buildService    service.BuildService
	buildLogService service.BuildLogService
}

// newApplication creates a new application instance with all dependencies
// initialized. The database connection and logger must already be
// established; everything else is wired here.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.buildStore = postgres.NewPostgresBuildStore(db, logger)

	// One bounded store shared by every cache consumer; overflowing it
	// clears everything, including task status records.
	app.cacheStore = cache.NewStore(cfg.Cache.MaxEntries, logger)
	app.registry = task.NewStatusRegistry(app.cacheStore, logger)

	app.recorder = metrics.NewRecorder(metrics.DefaultRelativeAccuracy, logger)

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(app.recorder)
	app.emitter = emitter

	app.logWriter, err = logbuild.NewWriter(cfg.Log.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log writer: %w", err)
	}

	app.buildService, err = service.NewBuildService(app.buildStore, app.cacheStore, app.recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create build service: %w", err)
	}

	app.runner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)

	app.buildLogService, err = service.NewBuildLogService(
		app.buildService,
		app.buildStore,
		app.registry,
		app.runner,
		app.logWriter,
		app.emitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create build log service: %w", err)
	}

	// Failures surface through the runner for both returned errors and
	// recovered panics; the service records them against the task handle.
	app.runner.SetErrorHandler(app.buildLogService.HandleJobFailure)
	app.runner.Start()

	logger.Info("application initialized",
		"log_dir", cfg.Log.Dir,
		"queue_size", cfg.Task.QueueSize,
		"worker_count", cfg.Task.WorkerCount)
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The runner
// stops first so no job touches the database after it closes.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
