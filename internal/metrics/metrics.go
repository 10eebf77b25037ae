package metrics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/events"
)

// OpGenerateLog is the operation name under which log-generation job
// latencies are recorded.
const OpGenerateLog = "generate_log"

// DefaultRelativeAccuracy is the DDSketch relative accuracy used when the
// caller does not supply one (1% quantile error).
const DefaultRelativeAccuracy = 0.01

// Recorder tracks latency quantiles per operation using DDSketch, plus
// counters for task outcomes and cache lookups. It implements
// events.Handler so it can subscribe to the task event emitter.
//
// All methods are safe for concurrent use.
type Recorder struct {
	mu               sync.Mutex
	sketches         map[string]*ddsketch.DDSketch
	relativeAccuracy float64
	outcomes         map[events.Outcome]int64
	cacheHits        int64
	cacheMisses      int64
	logger           *slog.Logger
}

// NewRecorder creates a Recorder with the given DDSketch relative accuracy
// (e.g. 0.01 = 1% accuracy). Non-positive values fall back to
// DefaultRelativeAccuracy.
func NewRecorder(relativeAccuracy float64, logger *slog.Logger) *Recorder {
	log := logger.With("component", "metrics_recorder")
	if relativeAccuracy <= 0 {
		log.Warn("invalid relative accuracy, using default",
			"requested", relativeAccuracy,
			"default", DefaultRelativeAccuracy)
		relativeAccuracy = DefaultRelativeAccuracy
	}
	return &Recorder{
		sketches:         make(map[string]*ddsketch.DDSketch),
		relativeAccuracy: relativeAccuracy,
		outcomes:         make(map[events.Outcome]int64),
		logger:           log,
	}
}

// Ensure Recorder can subscribe to the task event emitter.
var _ events.Handler = (*Recorder)(nil)

// Record records a duration for the given operation.
func (r *Recorder) Record(operation string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sketch, exists := r.sketches[operation]
	if !exists {
		var err error
		sketch, err = ddsketch.LogUnboundedDenseDDSketch(r.relativeAccuracy)
		if err != nil {
			// Fall back to the default sketch if construction fails
			sketch, _ = ddsketch.NewDefaultDDSketch(r.relativeAccuracy)
		}
		r.sketches[operation] = sketch
	}

	// Record duration in milliseconds
	if err := sketch.Add(float64(duration.Microseconds()) / 1000.0); err != nil {
		r.logger.Warn("failed to record latency sample",
			"operation", operation,
			"error", err)
	}
}

// HandleTaskEvent records the latency and outcome of a finished task.
// It never returns an error; a metrics failure must not disturb the
// emitter or its other subscribers.
func (r *Recorder) HandleTaskEvent(_ context.Context, event events.TaskEvent) error {
	r.Record(OpGenerateLog, event.Duration)

	r.mu.Lock()
	r.outcomes[event.Outcome]++
	r.mu.Unlock()

	return nil
}

// RecordCacheHit increments the cache hit counter.
func (r *Recorder) RecordCacheHit() {
	r.mu.Lock()
	r.cacheHits++
	r.mu.Unlock()
}

// RecordCacheMiss increments the cache miss counter.
func (r *Recorder) RecordCacheMiss() {
	r.mu.Lock()
	r.cacheMisses++
	r.mu.Unlock()
}

// OperationStats summarizes the latency distribution for one operation.
// All latency values are in milliseconds.
type OperationStats struct {
	Operation string  `json:"operation"`
	Count     int64   `json:"count"`
	Min       float64 `json:"min_ms"`
	P50       float64 `json:"p50_ms"`
	P90       float64 `json:"p90_ms"`
	P95       float64 `json:"p95_ms"`
	P99       float64 `json:"p99_ms"`
	Max       float64 `json:"max_ms"`
}

// Snapshot is a point-in-time view of all recorded metrics.
type Snapshot struct {
	Operations  []OperationStats `json:"operations"`
	Outcomes    map[string]int64 `json:"outcomes"`
	CacheHits   int64            `json:"cache_hits"`
	CacheMisses int64            `json:"cache_misses"`
}

// Snapshot returns statistics for all tracked operations plus the outcome
// and cache counters. Operations are sorted by name so the output is
// stable across calls.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	operations := make([]string, 0, len(r.sketches))
	for operation := range r.sketches {
		operations = append(operations, operation)
	}
	sort.Strings(operations)

	stats := make([]OperationStats, 0, len(operations))
	for _, operation := range operations {
		stats = append(stats, r.statsLocked(operation, r.sketches[operation]))
	}

	outcomes := make(map[string]int64, len(r.outcomes))
	for outcome, count := range r.outcomes {
		outcomes[string(outcome)] = count
	}

	return Snapshot{
		Operations:  stats,
		Outcomes:    outcomes,
		CacheHits:   r.cacheHits,
		CacheMisses: r.cacheMisses,
	}
}

// statsLocked computes quantile statistics for one sketch.
// The caller must hold r.mu.
func (r *Recorder) statsLocked(operation string, sketch *ddsketch.DDSketch) OperationStats {
	count := sketch.GetCount()
	if count == 0 {
		return OperationStats{Operation: operation}
	}

	min, _ := sketch.GetMinValue()
	p50, _ := sketch.GetValueAtQuantile(0.50)
	p90, _ := sketch.GetValueAtQuantile(0.90)
	p95, _ := sketch.GetValueAtQuantile(0.95)
	p99, _ := sketch.GetValueAtQuantile(0.99)
	max, _ := sketch.GetMaxValue()

	return OperationStats{
		Operation: operation,
		Count:     int64(count),
		Min:       min,
		P50:       p50,
		P90:       p90,
		P95:       p95,
		P99:       p99,
		Max:       max,
	}
}
