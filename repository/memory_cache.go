package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	probability float32
	expires     time.Time
}

// MemoryCache is an in-process ProbabilityCache. A zero ttl never expires.
// Expired entries are swept by Set at most once per ttl.
type MemoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	data      map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (float32, bool) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		m.mu.Lock()
		if current, ok := m.data[key]; ok && current.expires.Equal(entry.expires) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return 0, false
	}
	return entry.probability, true
}

func (m *MemoryCache) Set(_ context.Context, key string, probability float32) error {
	entry := memoryEntry{probability: probability}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ttl > 0 {
		m.sweep()
	}
	m.data[key] = entry
	return nil
}

// sweep drops expired entries. Callers hold the write lock.
func (m *MemoryCache) sweep() {
	now := m.now()
	if now.Sub(m.lastSweep) < m.ttl {
		return
	}
	for key, entry := range m.data {
		if now.After(entry.expires) {
			delete(m.data, key)
		}
	}
	m.lastSweep = now
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
