// Package main implements the entry point for the build library server,
// which manages a catalog of Minecraft community builds and generates
// downloadable build logs asynchronously.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/config"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	migrationsDir := flag.String("migrations-dir", "migrations", "directory containing goose migration files")
	flag.Parse()

	if err := run(*migrateOnly, *migrationsDir); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application together, and starts the
// HTTP server. Split from main so failures return instead of exiting.
func run(migrateOnly bool, migrationsDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Int("cache_max_entries", cfg.Cache.MaxEntries),
		slog.Int("task_workers", cfg.Task.WorkerCount))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := runMigrations(db, migrationsDir, appLogger); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database after migration failure",
				slog.String("error", closeErr.Error()))
		}
		return err
	}

	if migrateOnly {
		appLogger.Info("migrations applied, exiting")
		return db.Close()
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database after startup failure",
				slog.String("error", closeErr.Error()))
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(context.Background())
}
