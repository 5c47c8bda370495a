package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"animeta/internal/fileutil"
)

// FileMedium keeps every entry in one JSON document. Writes rewrite the
// document atomically through a temp file; a sidecar lock file serializes
// writers across processes.
type FileMedium struct {
	path string
	lock *flock.Flock

	mu      sync.RWMutex
	entries map[string]Entry
	modTime time.Time
	size    int64
}

type fileRecord struct {
	Key string `json:"key"`
	Entry
}

// NewFileMedium returns a medium backed by the JSON document at path. The
// file is created lazily on first write.
func NewFileMedium(path string) *FileMedium {
	return &FileMedium{
		path:    path,
		lock:    flock.New(path + ".lock"),
		entries: make(map[string]Entry),
	}
}

func (m *FileMedium) Read(_ context.Context, key string) (Entry, bool, error) {
	if err := m.refresh(); err != nil {
		return Entry{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok, nil
}

func (m *FileMedium) Write(_ context.Context, key string, entry Entry) error {
	return m.mutate(func(entries map[string]Entry) {
		entries[key] = entry
	})
}

func (m *FileMedium) Delete(_ context.Context, key string) error {
	return m.mutate(func(entries map[string]Entry) {
		delete(entries, key)
	})
}

func (m *FileMedium) Clear(context.Context) error {
	return m.mutate(func(entries map[string]Entry) {
		for key := range entries {
			delete(entries, key)
		}
	})
}

// Prune drops entries written before cutoff.
func (m *FileMedium) Prune(_ context.Context, cutoff time.Time) (int, error) {
	removed := 0
	err := m.mutate(func(entries map[string]Entry) {
		for key, entry := range entries {
			if entry.WrittenTime().Before(cutoff) {
				delete(entries, key)
				removed++
			}
		}
	})
	return removed, err
}

func (m *FileMedium) Stats(context.Context) (Stats, error) {
	if err := m.refresh(); err != nil {
		return Stats{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := Stats{Backend: "file", Path: m.path, Entries: len(m.entries)}
	for _, entry := range m.entries {
		stats.Bytes += int64(len(entry.Value))
	}
	return stats, nil
}

// refresh reloads the document when another process has replaced it. A
// changed size counts as a replacement even when the mtime is unchanged.
func (m *FileMedium) refresh() error {
	info, err := os.Stat(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat cache file: %w", err)
	}

	m.mu.RLock()
	current := info.ModTime().Equal(m.modTime) && info.Size() == m.size
	m.mu.RUnlock()
	if current {
		return nil
	}

	if err := m.lock.RLock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer func() { _ = m.lock.Unlock() }()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// mutate applies fn to the freshest on-disk state and persists the result
// while holding the cross-process lock.
func (m *FileMedium) mutate(fn func(map[string]Entry)) error {
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}
	if err := m.lock.Lock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer func() { _ = m.lock.Unlock() }()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.load(); err != nil {
		return err
	}
	fn(m.entries)
	return m.save()
}

// load reads the document into memory. Callers hold m.mu.
func (m *FileMedium) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.entries = make(map[string]Entry)
			m.modTime, m.size = time.Time{}, 0
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	var records []fileRecord
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parse cache file: %w", err)
		}
	}
	m.entries = make(map[string]Entry, len(records))
	for _, record := range records {
		if record.Key != "" {
			m.entries[record.Key] = record.Entry
		}
	}
	if info, err := os.Stat(m.path); err == nil {
		m.modTime, m.size = info.ModTime(), info.Size()
	}
	return nil
}

// save writes the document atomically. Callers hold m.mu.
func (m *FileMedium) save() error {
	records := make([]fileRecord, 0, len(m.entries))
	for key, entry := range m.entries {
		records = append(records, fileRecord{Key: key, Entry: entry})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := fileutil.WriteAtomic(m.path, data, 0o644); err != nil {
		return err
	}
	if info, err := os.Stat(m.path); err == nil {
		m.modTime, m.size = info.ModTime(), info.Size()
	}
	return nil
}
