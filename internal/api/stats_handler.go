package api

import (
	"log/slog"
	"net/http"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/api/shared"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/cache"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/metrics"
)

// StatsResponse combines the cache store counters with the operation
// latency snapshot for the stats endpoint.
type StatsResponse struct {
	Cache   cache.Stats      `json:"cache"`
	Metrics metrics.Snapshot `json:"metrics"`
}

// StatsHandler serves runtime statistics: cache effectiveness and
// background job latencies.
type StatsHandler struct {
	cache    *cache.Store
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(cacheStore *cache.Store, recorder *metrics.Recorder, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsHandler{
		cache:    cacheStore,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /stats requests.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, StatsResponse{
		Cache:   h.cache.Stats(),
		Metrics: h.recorder.Snapshot(),
	})
}
