package cachestore

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryEntries bounds a memory medium created without a size.
const DefaultMemoryEntries = 1024

// MemoryMedium is a bounded in-process LRU. The least recently used entry is
// evicted when the medium is full, so writes never fail on quota.
type MemoryMedium struct {
	cache *lru.Cache[string, Entry]
}

// NewMemoryMedium returns an LRU medium holding at most size entries.
func NewMemoryMedium(size int) *MemoryMedium {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	cache, err := lru.New[string, Entry](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &MemoryMedium{cache: cache}
}

func (m *MemoryMedium) Read(_ context.Context, key string) (Entry, bool, error) {
	entry, ok := m.cache.Get(key)
	return entry, ok, nil
}

func (m *MemoryMedium) Write(_ context.Context, key string, entry Entry) error {
	m.cache.Add(key, entry)
	return nil
}

func (m *MemoryMedium) Delete(_ context.Context, key string) error {
	m.cache.Remove(key)
	return nil
}

func (m *MemoryMedium) Clear(context.Context) error {
	m.cache.Purge()
	return nil
}

// Prune drops entries written before cutoff.
func (m *MemoryMedium) Prune(_ context.Context, cutoff time.Time) (int, error) {
	removed := 0
	for _, key := range m.cache.Keys() {
		entry, ok := m.cache.Peek(key)
		if ok && entry.WrittenTime().Before(cutoff) {
			m.cache.Remove(key)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryMedium) Stats(context.Context) (Stats, error) {
	stats := Stats{Backend: "memory"}
	for _, entry := range m.cache.Values() {
		stats.Entries++
		stats.Bytes += int64(len(entry.Value))
	}
	return stats, nil
}
