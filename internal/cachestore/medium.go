package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrQuotaExceeded reports that a medium refused a write because it is full.
var ErrQuotaExceeded = errors.New("cache quota exceeded")

// Entry is the unit persisted by a Medium.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	WrittenAt int64           `json:"written_at"` // epoch milliseconds
}

// WrittenTime returns the write timestamp as a time.Time.
func (e Entry) WrittenTime() time.Time {
	return time.UnixMilli(e.WrittenAt)
}

// Stats summarizes a medium's contents.
type Stats struct {
	Backend string `json:"backend"`
	Path    string `json:"path,omitempty"`
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
}

// Medium is the persistent storage behind a Store. Keys arrive already
// namespaced. Read reports absence with ok=false and a nil error.
type Medium interface {
	Read(ctx context.Context, key string) (Entry, bool, error)
	Write(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Pruner is implemented by media that can drop entries written before cutoff.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}
