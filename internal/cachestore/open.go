package cachestore

import (
	"fmt"
	"log/slog"

	"animeta/internal/config"
)

// Open builds a Store for the configured backend. A disabled cache yields a
// Store without a medium.
func Open(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Store, error) {
	base := []Option{WithLogger(logger)}
	if cfg == nil || !cfg.Cache.Enabled {
		return New(nil, append(base, opts...)...), nil
	}
	base = append(base, WithTTL(cfg.CacheTTL()), WithNamespace(cfg.Cache.Namespace))

	var medium Medium
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		medium = NewMemoryMedium(cfg.Cache.MaxEntries)
	case config.CacheBackendFile:
		medium = NewFileMedium(cfg.Cache.Path)
	case config.CacheBackendSQLite, "":
		sqlite, err := OpenSQLite(cfg.Cache.Path, SQLiteOptions{
			MaxEntries: cfg.Cache.MaxEntries,
			MaxBytes:   cfg.Cache.MaxBytes,
			TTL:        cfg.CacheTTL(),
		})
		if err != nil {
			return nil, err
		}
		medium = sqlite
	default:
		return nil, fmt.Errorf("cache backend: unsupported value %q", cfg.Cache.Backend)
	}
	return New(medium, append(base, opts...)...), nil
}
