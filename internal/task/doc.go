// Package task manages background job queuing, processing, and status
// tracking. The Runner executes jobs asynchronously on a fixed worker pool
// so long-running work like build log generation never blocks HTTP request
// handling, and the StatusRegistry records each job's lifecycle in the
// shared cache store for clients to poll.
package task
