// Package store provides the injectable key-value store used for run
// bookkeeping, replacing ambient process-global maps. Implementations have
// explicit construction and teardown.
package store

import (
	"context"
	"sync"
	"time"
)

// Store is a small TTL'd key-value surface. Values are short strings (run
// status markers); nothing in the pipeline core persists through it.
type Store interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Close() error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is a bounded map behind a mutex. When full, the oldest inserted
// key is evicted first.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	order    []string
	capacity int
	now      func() time.Time
}

// NewMemory builds an in-process store holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{
		entries:  make(map[string]memoryEntry, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Put stores value under key. A ttl of zero means no expiry.
func (m *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	if _, exists := m.entries[key]; !exists {
		if len(m.entries) >= m.capacity {
			m.evictLocked()
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

// Get returns the stored value and whether the key is live.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

// Close releases the map.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	m.order = nil
	return nil
}

// evictLocked drops expired keys first, then the oldest inserted live key.
func (m *Memory) evictLocked() {
	now := m.now()
	var kept []string
	evicted := false
	for _, key := range m.order {
		entry, ok := m.entries[key]
		if !ok {
			continue
		}
		if !evicted && !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(m.entries, key)
			evicted = true
			continue
		}
		kept = append(kept, key)
	}
	if !evicted && len(kept) > 0 {
		delete(m.entries, kept[0])
		kept = kept[1:]
	}
	m.order = kept
}
