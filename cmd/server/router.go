package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/api"
	apiMiddleware "github.com/Sovok1917/MCBuildLibrary-sub001/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Catalog mutations require a bearer token; reads and the
// log-generation endpoints are public.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.config.Auth, app.jwtService, app.passwordVerifier, app.logger)
	buildHandler := api.NewBuildHandler(app.buildService, app.logger)
	logHandler := api.NewBuildLogHandler(app.buildLogService, app.logger)
	statsHandler := api.NewStatsHandler(app.cacheStore, app.recorder, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Post("/auth/login", authHandler.Login)

	r.Route("/builds", func(r chi.Router) {
		r.Get("/", buildHandler.ListBuilds)
		r.Get("/{identifier}", buildHandler.GetBuild)

		// Asynchronous log generation
		r.Post("/{identifier}/generate-log", logHandler.InitiateLogGeneration)
		r.Get("/log-status/{taskId}", logHandler.GetLogStatus)
		r.Get("/log-file/{taskId}", logHandler.DownloadLogFile)

		// Catalog mutations (admin only)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/", buildHandler.CreateBuild)
			r.Put("/{identifier}", buildHandler.UpdateBuild)
			r.Delete("/{identifier}", buildHandler.DeleteBuild)
		})
	})

	r.Route("/metadata", func(r chi.Router) {
		r.Get("/authors", buildHandler.ListAuthors)
		r.Get("/themes", buildHandler.ListThemes)
		r.Get("/colors", buildHandler.ListColors)
	})

	r.Get("/stats", statsHandler.GetStats)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
