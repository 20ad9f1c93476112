package cache

import (
	"context"
	"sync"
	"time"

	appcache "innkeep/internal/app/cache"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []string
}

// Memory is the process-local cache used when no Redis is configured.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	byTag   map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		byTag:   make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		m.removeLocked(key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(key)
	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
		tags:      tags,
	}
	for _, tag := range tags {
		if m.byTag[tag] == nil {
			m.byTag[tag] = make(map[string]struct{})
		}
		m.byTag[tag][key] = struct{}{}
	}
	return nil
}

func (m *Memory) InvalidateTags(ctx context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range tags {
		for key := range m.byTag[tag] {
			m.removeLocked(key)
		}
		delete(m.byTag, tag)
	}
	return nil
}

func (m *Memory) removeLocked(key string) {
	entry, ok := m.entries[key]
	if !ok {
		return
	}
	for _, tag := range entry.tags {
		if keys := m.byTag[tag]; keys != nil {
			delete(keys, key)
			if len(keys) == 0 {
				delete(m.byTag, tag)
			}
		}
	}
	delete(m.entries, key)
}

var _ appcache.Cache = (*Memory)(nil)
