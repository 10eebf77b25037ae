package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/api/shared"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/logger"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service"
)

// BuildLogHandler handles asynchronous build-log generation requests:
// initiation, status polling, and file download.
type BuildLogHandler struct {
	logService service.BuildLogService
	logger     *slog.Logger
}

// NewBuildLogHandler creates a new BuildLogHandler.
func NewBuildLogHandler(logService service.BuildLogService, logger *slog.Logger) *BuildLogHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &BuildLogHandler{
		logService: logService,
		logger:     logger.With(slog.String("component", "buildlog_handler")),
	}
}

// InitiateLogGeneration handles POST /builds/{identifier}/generate-log
// requests. It responds 202 Accepted with the task handle as soon as the
// job is registered; generation itself runs on the worker pool.
func (h *BuildLogHandler) InitiateLogGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ref, err := parseIdentifier(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Build identifier is required")
		return
	}

	taskID, err := h.logService.Initiate(r.Context(), ref)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("log generation initiated",
		slog.String("identifier", ref.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, TaskInitiatedResponse{TaskID: taskID})
}

// GetLogStatus handles GET /builds/log-status/{taskId} requests.
func (h *BuildLogHandler) GetLogStatus(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	status, err := h.logService.GetStatus(r.Context(), taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, status)
}

// DownloadLogFile handles GET /builds/log-file/{taskId} requests. A
// completed task streams its file as an attachment; a pending task answers
// 202 so clients can keep polling.
func (h *BuildLogHandler) DownloadLogFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	file, err := h.logService.GetFile(r.Context(), taskID)
	if err != nil {
		if MapErrorToStatusCode(err) == http.StatusAccepted {
			shared.RespondWithJSON(w, r, http.StatusAccepted,
				TaskPendingResponse{Message: "log generation in progress"})
			return
		}
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("serving log file",
		slog.String("task_id", taskID.String()),
		slog.String("filename", file.Filename))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	http.ServeFile(w, r, file.Path)
}

// parseTaskID reads and validates the {taskId} path parameter, answering
// 400 itself when the value is not a UUID.
func (h *BuildLogHandler) parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "taskId")
	taskID, err := uuid.Parse(raw)
	if err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Warn("invalid task id format", slog.String("task_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return uuid.Nil, false
	}
	return taskID, true
}
