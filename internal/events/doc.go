// Package events provides types and interfaces for in-process task
// lifecycle events.
//
// The task layer emits a TaskEvent after each log-generation job finishes,
// without knowing which handlers will process it. This keeps subscribers
// such as the metrics recorder decoupled from job execution.
//
// The primary components are:
// - TaskEvent: Describes a finished task (handle, build, outcome, duration)
// - Handler: Interface for components that consume events
// - Emitter: Interface for components that publish events
package events
