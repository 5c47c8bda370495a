package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"animeta/internal/logging"
	"animeta/internal/services"
)

const (
	// DefaultTTL is the validity window applied when none is configured.
	DefaultTTL = 24 * time.Hour
	// DefaultNamespace prefixes every key written by a Store.
	DefaultNamespace = "anime_cache"
)

// Store is a TTL cache over a Medium. A Store with a nil medium is valid and
// behaves as an always-empty cache.
type Store struct {
	medium    Medium
	namespace string
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the validity window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNamespace overrides the key prefix.
func WithNamespace(namespace string) Option {
	return func(s *Store) {
		if namespace = strings.TrimSpace(namespace); namespace != "" {
			s.namespace = namespace
		}
	}
}

// WithClock injects the time source used for stamping and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for swallowed medium failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Store over medium.
func New(medium Medium, opts ...Option) *Store {
	s := &Store{
		medium:    medium,
		namespace: DefaultNamespace,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "cachestore")
	return s
}

// Enabled reports whether the store has a backing medium.
func (s *Store) Enabled() bool {
	return s != nil && s.medium != nil
}

// TTL returns the configured validity window.
func (s *Store) TTL() time.Duration {
	if s == nil {
		return DefaultTTL
	}
	return s.ttl
}

func (s *Store) namespaced(key Key) string {
	return s.namespace + "_" + key.String()
}

// Get decodes the cached value for key into dest. It returns false when the
// entry is missing, expired, or unreadable.
func (s *Store) Get(ctx context.Context, key Key, dest any) bool {
	if !s.Enabled() {
		return false
	}
	name := s.namespaced(key)
	entry, ok, err := s.medium.Read(ctx, name)
	if err != nil {
		s.swallow("cache read failed", "cache_read_failed", name, err)
		return false
	}
	if !ok {
		return false
	}
	if s.now().Sub(entry.WrittenTime()) > s.ttl {
		if err := s.medium.Delete(ctx, name); err != nil {
			s.logger.Debug("expired entry delete failed", logging.String(logging.FieldCacheKey, name), logging.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		s.swallow("cache entry decode failed", "cache_decode_failed", name, err)
		return false
	}
	s.logger.Debug("cache hit", logging.String(logging.FieldCacheKey, name))
	return true
}

// Put stores value under key, stamped with the current time. Failures are
// logged and dropped.
func (s *Store) Put(ctx context.Context, key Key, value any) {
	if !s.Enabled() {
		return
	}
	name := s.namespaced(key)
	data, err := json.Marshal(value)
	if err != nil {
		s.swallow("cache entry encode failed", "cache_encode_failed", name, err)
		return
	}
	entry := Entry{Value: data, WrittenAt: s.now().UnixMilli()}
	if err := s.medium.Write(ctx, name, entry); err != nil {
		s.swallow("cache write failed", "cache_write_failed", name, err)
	}
}

// Lookup is a typed convenience over Store.Get.
func Lookup[T any](ctx context.Context, s *Store, key Key) (T, bool) {
	var value T
	if !s.Get(ctx, key, &value) {
		var zero T
		return zero, false
	}
	return value, true
}

// Prune removes entries older than the TTL when the medium supports it.
func (s *Store) Prune(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	pruner, ok := s.medium.(Pruner)
	if !ok {
		return 0, nil
	}
	removed, err := pruner.Prune(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, services.Wrap(services.ErrCache, "cachestore", "prune", "", err)
	}
	return removed, nil
}

// Clear removes every entry from the medium.
func (s *Store) Clear(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.medium.Clear(ctx); err != nil {
		return services.Wrap(services.ErrCache, "cachestore", "clear", "", err)
	}
	return nil
}

// Stats reports medium statistics.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if !s.Enabled() {
		return Stats{Backend: "disabled"}, nil
	}
	stats, err := s.medium.Stats(ctx)
	if err != nil {
		return Stats{}, services.Wrap(services.ErrCache, "cachestore", "stats", "", err)
	}
	return stats, nil
}

// Close releases the medium when it holds resources.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	if closer, ok := s.medium.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s *Store) swallow(msg, eventType, key string, err error) {
	impact := "result served without caching"
	level := slog.LevelDebug
	if errors.Is(err, ErrQuotaExceeded) {
		impact = "cache is full; results will be refetched until entries expire"
		level = slog.LevelWarn
	}
	if level == slog.LevelWarn {
		logging.WarnWithContext(s.logger, msg, eventType,
			logging.String(logging.FieldCacheKey, key),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'animeta cache prune' or raise cache.max_entries"),
			logging.String(logging.FieldImpact, impact))
		return
	}
	s.logger.Debug(msg,
		logging.String(logging.FieldEventType, eventType),
		logging.String(logging.FieldCacheKey, key),
		logging.Error(err),
		logging.String(logging.FieldImpact, impact))
}
