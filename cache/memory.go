package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a cached response is served before it is reloaded
const DefaultTTL = 5 * time.Minute

// Memory is a memory-resident cache keyed by request key. Failed payloads are
// cached like successful ones unless a separate failure TTL is configured.
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	group   singleflight.Group

	now        func() time.Time
	ttl        time.Duration
	failureTTL time.Duration
	isFailure  func(V) bool
}

// Option configures a Memory cache
type Option[V any] func(*Memory[V])

// WithClock replaces time.Now, mostly for tests
func WithClock[V any](now func() time.Time) Option[V] {
	return func(m *Memory[V]) {
		if now != nil {
			m.now = now
		}
	}
}

// WithFailureTTL applies ttl instead of the regular TTL to payloads for which
// isFailure returns true. A zero ttl disables negative caching.
func WithFailureTTL[V any](ttl time.Duration, isFailure func(V) bool) Option[V] {
	return func(m *Memory[V]) {
		m.failureTTL, m.isFailure = ttl, isFailure
	}
}

// NewMemory creates an empty cache. A non-positive ttl falls back to DefaultTTL.
func NewMemory[V any](ttl time.Duration, opts ...Option[V]) *Memory[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory[V]{
		entries:    make(map[string]Entry[V]),
		now:        time.Now,
		ttl:        ttl,
		failureTTL: ttl,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get implements Getter. Concurrent callers missing the same key share a
// single loader invocation.
func (m *Memory[V]) Get(key string, load Loader[V]) V {
	if e, ok := m.Read(key); ok {
		return e.Payload
	}

	v, _, _ := m.group.Do(key, func() (any, error) {
		// another flight may have populated the key while we were checking
		if e, ok := m.Read(key); ok {
			return e.Payload, nil
		}
		payload := load()
		m.Write(key, payload)
		return payload, nil
	})
	return v.(V)
}

// Read returns the entry for key and whether it is still fresh. An expired
// entry is returned together with false.
func (m *Memory[V]) Read(key string) (*Entry[V], bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return &e, m.fresh(e)
}

// Write stores payload under key, stamped with the current time
func (m *Memory[V]) Write(key string, payload V) {
	e := Entry[V]{Key: key, Payload: payload, FetchedAt: m.now()}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

// Clear implements Clearer
func (m *Memory[V]) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]Entry[V])
	m.mu.Unlock()
}

// Len returns the number of stored entries, fresh or not
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory[V]) fresh(e Entry[V]) bool {
	ttl := m.ttl
	if m.isFailure != nil && m.isFailure(e.Payload) {
		ttl = m.failureTTL
	}
	return m.now().Sub(e.FetchedAt) < ttl
}

var _ Cache[string] = (*Memory[string])(nil)
