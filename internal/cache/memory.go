package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
	seq     uint64
}

// Memory is a bounded in-process cache with a per-entry TTL. When full,
// the oldest entry is evicted.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	maxEntries int
	ttl        time.Duration
	seq        uint64
	now        func() time.Time
}

// NewMemory creates a cache holding at most maxEntries values for ttl each.
// A zero ttl keeps entries until they are evicted.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Memory{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.expired(e) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, evicting if needed.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e := &memoryEntry{value: value, seq: m.seq}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evict()
	}
	m.entries[key] = e
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evict drops expired entries, or the oldest one if none expired. Caller holds mu.
func (m *Memory) evict() {
	var oldestKey string
	var oldestSeq uint64
	dropped := false
	for k, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, k)
			dropped = true
			continue
		}
		if oldestKey == "" || e.seq < oldestSeq {
			oldestKey, oldestSeq = k, e.seq
		}
	}
	if !dropped && oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func (m *Memory) expired(e *memoryEntry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}
