package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultMaxEntries is the sweep threshold used when none is configured.
const DefaultMaxEntries = 100

type entry[V any] struct {
	value      V
	insertedAt time.Time
	ttl        time.Duration
}

func (e entry[V]) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.insertedAt) >= e.ttl
}

// MemoryOptions configures a Memory cache.
type MemoryOptions struct {
	// MaxEntries is the size above which a write sweeps expired entries
	// and, if still over, evicts the oldest. Zero means DefaultMaxEntries.
	MaxEntries int

	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

// Memory is an in-process cache. Eviction is lazy: expired entries are
// dropped when read, and swept on the write path once the map grows past
// MaxEntries. There is no background goroutine.
type Memory[V any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[V]
	maxEntries int
	now        func() time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory[V any](opts MemoryOptions) *Memory[V] {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Memory[V]{
		entries:    make(map[string]entry[V]),
		maxEntries: opts.MaxEntries,
		now:        opts.Now,
	}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false, nil
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		// Re-check: a writer may have replaced the entry meanwhile.
		if cur, still := m.entries[key]; still && cur.expired(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return zero, false, nil
	}
	return e.value, true, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, v V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[key] = entry[V]{value: v, insertedAt: now, ttl: ttl}
	if len(m.entries) > m.maxEntries {
		m.sweepLocked(now)
	}
	return nil
}

// sweepLocked drops expired entries, then the oldest ones until the map
// is back within bounds.
func (m *Memory[V]) sweepLocked(now time.Time) {
	for k, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, k)
		}
	}
	over := len(m.entries) - m.maxEntries
	if over <= 0 {
		return
	}

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return m.entries[keys[i]].insertedAt.Before(m.entries[keys[j]].insertedAt)
	})
	for _, k := range keys[:over] {
		delete(m.entries, k)
	}
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry[V])
	m.mu.Unlock()
	return nil
}

// Len counts live entries.
func (m *Memory[V]) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	n := 0
	for _, e := range m.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n, nil
}
