package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/api/shared"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/logger"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/redact"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
)

// BuildHandler handles catalog requests: build CRUD and the distinct
// metadata listings.
type BuildHandler struct {
	buildService service.BuildService
	logger       *slog.Logger
}

// NewBuildHandler creates a new BuildHandler.
func NewBuildHandler(buildService service.BuildService, logger *slog.Logger) *BuildHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &BuildHandler{
		buildService: buildService,
		logger:       logger.With(slog.String("component", "build_handler")),
	}
}

// CreateBuild handles POST /builds requests.
func (h *BuildHandler) CreateBuild(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req BuildRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request body", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	build, err := req.toDomain()
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.buildService.CreateBuild(r.Context(), build); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, build)
}

// GetBuild handles GET /builds/{identifier} requests. The identifier is a
// numeric id or an exact build name.
func (h *BuildHandler) GetBuild(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ref, err := parseIdentifier(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Build identifier is required")
		return
	}

	build, err := h.buildService.GetBuild(r.Context(), ref)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("build resolved",
		slog.String("identifier", ref.String()),
		slog.Int64("build_id", build.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, build)
}

// ListBuilds handles GET /builds requests. Filters come from the author,
// theme, color and name query parameters; limit and offset page the result.
func (h *BuildHandler) ListBuilds(w http.ResponseWriter, r *http.Request) {
	filter, err := parseBuildFilter(r)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	builds, err := h.buildService.ListBuilds(r.Context(), filter)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, builds)
}

// UpdateBuild handles PUT /builds/{identifier} requests. The referenced
// build is fully replaced by the request payload.
func (h *BuildHandler) UpdateBuild(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ref, err := parseIdentifier(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Build identifier is required")
		return
	}

	var req BuildRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request body", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	existing, err := h.buildService.GetBuild(r.Context(), ref)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	build, err := req.toDomain()
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	build.ID = existing.ID
	build.CreatedAt = existing.CreatedAt
	build.SchemFile = existing.SchemFile

	if err := h.buildService.UpdateBuild(r.Context(), build); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, build)
}

// DeleteBuild handles DELETE /builds/{identifier} requests.
func (h *BuildHandler) DeleteBuild(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ref, err := parseIdentifier(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Build identifier is required")
		return
	}

	existing, err := h.buildService.GetBuild(r.Context(), ref)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if err := h.buildService.DeleteBuild(r.Context(), existing.ID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	log.Debug("build deleted", slog.Int64("build_id", existing.ID))
	w.WriteHeader(http.StatusNoContent)
}

// ListAuthors handles GET /metadata/authors requests.
func (h *BuildHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	h.respondMetadata(w, r, h.buildService.ListAuthors)
}

// ListThemes handles GET /metadata/themes requests.
func (h *BuildHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	h.respondMetadata(w, r, h.buildService.ListThemes)
}

// ListColors handles GET /metadata/colors requests.
func (h *BuildHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	h.respondMetadata(w, r, h.buildService.ListColors)
}

func (h *BuildHandler) respondMetadata(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context) ([]string, error),
) {
	values, err := list(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, values)
}

// parseIdentifier reads the {identifier} path parameter. chi leaves escaped
// segments as matched, so names like "Stone%20Keep" are unescaped here.
func parseIdentifier(r *http.Request) (domain.BuildRef, error) {
	raw := chi.URLParam(r, "identifier")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return domain.ParseBuildRef(raw)
}

// parseBuildFilter reads the supported list query parameters. Blank values
// are treated as absent rather than matched literally.
func parseBuildFilter(r *http.Request) (store.BuildFilter, error) {
	var filter store.BuildFilter
	query := r.URL.Query()

	if author := strings.TrimSpace(query.Get("author")); author != "" {
		filter.Author = &author
	}
	if theme := strings.TrimSpace(query.Get("theme")); theme != "" {
		filter.Theme = &theme
	}
	if color := strings.TrimSpace(query.Get("color")); color != "" {
		filter.Color = &color
	}
	if name := strings.TrimSpace(query.Get("name")); name != "" {
		filter.Name = &name
	}

	limit, err := parsePageParam(query.Get("limit"), "limit")
	if err != nil {
		return store.BuildFilter{}, err
	}
	filter.Limit = limit

	offset, err := parsePageParam(query.Get("offset"), "offset")
	if err != nil {
		return store.BuildFilter{}, err
	}
	filter.Offset = offset

	return filter, nil
}

func parsePageParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrValidation, name)
	}
	return value, nil
}
