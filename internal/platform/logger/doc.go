// Package logger configures the application's structured logging and carries
// request-scoped loggers through contexts.
//
// Setup installs a JSON slog handler at the configured level as the process
// default. HTTP middleware attaches a per-request logger (with the trace ID)
// to the request context via WithLogger; downstream code retrieves it with
// FromContext or FromContextOrDefault so log lines correlate across layers
// without threading a logger through every call.
package logger
