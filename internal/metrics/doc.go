// Package metrics aggregates latency distributions and outcome counters
// for background log-generation tasks and cache lookups.
//
// Latencies are tracked per operation with DDSketch, which gives
// relative-accuracy quantile estimates at a fixed memory cost. The
// Recorder subscribes to task events and exposes a Snapshot consumed by
// the stats endpoint.
package metrics
