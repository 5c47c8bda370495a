package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProviders() error {
	if err := validateURL("anilist.endpoint", c.AniList.Endpoint); err != nil {
		return err
	}
	if err := validateURL("jikan.base_url", c.Jikan.BaseURL); err != nil {
		return err
	}
	if c.AniList.RequestsPerMinute < 0 {
		return errors.New("anilist.requests_per_minute must be zero (unlimited) or positive")
	}
	if c.Jikan.RequestsPerSecond < 0 {
		return errors.New("jikan.requests_per_second must be zero (unlimited) or positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	switch c.Cache.Backend {
	case CacheBackendSQLite, CacheBackendFile, CacheBackendMemory:
	default:
		return fmt.Errorf("cache.backend: unsupported value %q (want sqlite, file, or memory)", c.Cache.Backend)
	}
	if c.Cache.TTLHours <= 0 {
		return errors.New("cache.ttl_hours must be positive")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must be zero (unbounded) or positive")
	}
	if c.Cache.MaxBytes < 0 {
		return errors.New("cache.max_bytes must be zero (unbounded) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	return nil
}
