// Package cache provides the in-memory response cache that sits in front of
// the novel API, with TTL-based expiration and per-key load sharing.
package cache

import "time"

// Entry represents a cached payload with its fetch time
type Entry[V any] struct {
	Key       string
	Payload   V
	FetchedAt time.Time
}

// Loader produces a fresh payload for a key. It is only invoked on a miss or
// once the cached entry has expired.
type Loader[V any] func() V

// Getter defines read-through access to the cache
type Getter[V any] interface {
	// Get returns the cached payload for key when it is still fresh,
	// otherwise it invokes load, stores the result and returns it
	Get(key string, load Loader[V]) V
}

// Clearer drops every cached entry
type Clearer interface {
	Clear()
}

// Cache is the main interface that combines all cache operations
type Cache[V any] interface {
	Getter[V]
	Clearer
}
