package cache

import (
	"context"
	"sync"
	"time"

	"github.com/farmwise/farmwise/core"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero: never
}

// memoryStore is a process-local SessionStore. Expired entries are dropped on read.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	nowFunc func() time.Time
}

var _ core.SessionStore = (*memoryStore)(nil)

func NewMemoryStore() core.SessionStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		nowFunc: time.Now,
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, core.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !s.nowFunc().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, core.ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.nowFunc().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error { return nil }
