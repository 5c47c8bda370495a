package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeProviders()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	c.HTTP.UserAgent = strings.TrimSpace(c.HTTP.UserAgent)
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = defaultUserAgent
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = defaultHTTPTimeout
	}
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	return nil
}

func (c *Config) normalizeProviders() {
	c.AniList.Endpoint = strings.TrimSpace(c.AniList.Endpoint)
	if c.AniList.Endpoint == "" {
		c.AniList.Endpoint = defaultAniListEndpoint
	}
	c.Jikan.BaseURL = strings.TrimRight(strings.TrimSpace(c.Jikan.BaseURL), "/")
	if c.Jikan.BaseURL == "" {
		c.Jikan.BaseURL = defaultJikanBaseURL
	}
}

func (c *Config) normalizeCache() error {
	if value, ok := os.LookupEnv("ANIMETA_CACHE_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Cache.Path = strings.TrimSpace(value)
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = defaultCacheBackend
	}
	c.Cache.Namespace = strings.TrimSpace(c.Cache.Namespace)
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = defaultCacheNamespace
	}
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Backend == CacheBackendFile && filepath.Ext(c.Cache.Path) == ".db" {
		c.Cache.Path = filepath.Join(filepath.Dir(c.Cache.Path), defaultFileCacheFilename)
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("ANIMETA_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		var err error
		if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}
