package cache

import (
	"log/slog"
	"strings"
	"sync"
)

// DefaultMaxEntries is used when a Store is constructed with a non-positive
// capacity.
const DefaultMaxEntries = 1000

// Stats is a point-in-time snapshot of store counters. Hits and Misses count
// Get outcomes; a type-mismatched read counts as a miss. Clears counts
// full-store wipes, whether explicit or triggered by capacity overflow.
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Evictions  int64 `json:"evictions"`
	Clears     int64 `json:"clears"`
	Size       int   `json:"size"`
	MaxEntries int   `json:"max_entries"`
}

// Store is a goroutine-safe map with a hard capacity bound. Build query
// caching, metadata listings, and the task status registry all share one
// Store instance, so they also share its overflow behavior: inserting a new
// key while at capacity clears the entire store first. There is no partial
// eviction on overflow.
//
// A Store must be created with NewStore. The zero value is not usable.
type Store struct {
	mu         sync.Mutex
	entries    map[string]any
	maxEntries int
	logger     *slog.Logger

	hits      int64
	misses    int64
	evictions int64
	clears    int64
}

// NewStore creates a Store bounded to maxEntries. A non-positive maxEntries
// falls back to DefaultMaxEntries with a warning, mirroring how other
// components treat invalid numeric configuration. If logger is nil the
// default logger is used.
func NewStore(maxEntries int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "cache_store"))

	if maxEntries <= 0 {
		logger.Warn("invalid cache capacity specified, using default",
			slog.Int("specified", maxEntries),
			slog.Int("default", DefaultMaxEntries))
		maxEntries = DefaultMaxEntries
	}

	return &Store{
		entries:    make(map[string]any),
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Put stores value under key. Empty keys and nil values are rejected with a
// warning rather than an error; the caller treated the cache as best-effort
// in the first place.
//
// The capacity check and the insert happen under one critical section: if
// the store is at capacity and key is not already present, every entry is
// dropped before the insert. Two concurrent writers can therefore never both
// observe "under capacity" and defeat the bound.
func (s *Store) Put(key string, value any) {
	if key == "" || value == nil {
		s.logger.Warn("rejecting cache put with absent key or value",
			slog.Bool("key_absent", key == ""),
			slog.Bool("value_absent", value == nil))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxEntries {
		if _, exists := s.entries[key]; !exists {
			s.logger.Warn("cache at capacity, clearing all entries before insert",
				slog.Int("size", len(s.entries)),
				slog.Int("max_entries", s.maxEntries),
				slog.String("key", key))
			s.entries = make(map[string]any)
			s.clears++
		}
	}

	s.entries[key] = value
}

// Get returns the value stored under key, or (nil, false) on a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	return value, true
}

// GetTyped returns the value stored under key asserted to T. A stored value
// of any other dynamic type is treated as corruption: the entry is evicted
// and the call reports a miss instead of panicking. A subsequent GetTyped on
// the same key misses cleanly.
func GetTyped[T any](s *Store, key string) (T, bool) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.entries[key]
	if !ok {
		s.misses++
		return zero, false
	}

	value, ok := raw.(T)
	if !ok {
		s.logger.Warn("cache entry has unexpected type, evicting",
			slog.String("key", key))
		delete(s.entries, key)
		s.evictions++
		s.misses++
		return zero, false
	}

	s.hits++
	return value, true
}

// Evict removes key unconditionally. Absent keys are a no-op.
func (s *Store) Evict(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		s.evictions++
	}
}

// EvictByTypePrefix removes every cached query result for entityType. Only
// keys in the type's query namespace are touched; identity keys and entries
// belonging to other types survive. Callers invalidate identity keys
// separately because they know which ones a write affected.
func (s *Store) EvictByTypePrefix(entityType string) {
	prefix := queryPrefix(entityType)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 {
		s.evictions += int64(removed)
		s.logger.Debug("evicted cached queries for type",
			slog.String("entity_type", entityType),
			slog.Int("removed", removed))
	}
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]any)
	s.clears++
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// MaxEntries returns the configured capacity bound.
func (s *Store) MaxEntries() int {
	return s.maxEntries
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Hits:       s.hits,
		Misses:     s.misses,
		Evictions:  s.evictions,
		Clears:     s.clears,
		Size:       len(s.entries),
		MaxEntries: s.maxEntries,
	}
}
