// Package cache implements the process-wide bounded key-value store shared
// by the build catalog's query caching and the log-generation task registry.
//
// The store is deliberately simple: no TTL, no LRU. It enforces its capacity
// bound by clearing the whole map when an insert of a new key would exceed
// the configured maximum. Key construction is canonical and order-independent
// so that equivalent lookups always share one entry.
package cache
