package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"animeta/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// AniList contains configuration for the GraphQL catalog (primary provider).
type AniList struct {
	Endpoint          string `toml:"endpoint"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Jikan contains configuration for the REST catalog (secondary provider).
type Jikan struct {
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Cache contains configuration for the query result cache.
type Cache struct {
	Enabled    bool   `toml:"enabled"`
	Backend    string `toml:"backend"` // sqlite, file, memory
	Path       string `toml:"path"`
	Namespace  string `toml:"namespace"`
	TTLHours   int    `toml:"ttl_hours"`
	MaxEntries int    `toml:"max_entries"`
	MaxBytes   int64  `toml:"max_bytes"`
}

// HTTP contains settings for the shared outbound HTTP client.
type HTTP struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Server contains settings for the read-only JSON API.
type Server struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for animeta.
//
// Configuration sections by subsystem:
//   - AniList: primary catalog endpoint and request pacing
//   - Jikan: secondary catalog base URL and request pacing
//   - Cache: result cache backend, location, TTL and quota
//   - HTTP: outbound client timeout and user agent
//   - Server: bind address for `animeta serve`
//   - Logging: log format, level, and optional log directory
type Config struct {
	AniList AniList `toml:"anilist"`
	Jikan   Jikan   `toml:"jikan"`
	Cache   Cache   `toml:"cache"`
	HTTP    HTTP    `toml:"http"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("animeta.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the configured cache and log
// outputs write into.
func (c *Config) EnsureDirectories() error {
	if c.Cache.Enabled && c.Cache.Backend != CacheBackendMemory && strings.TrimSpace(c.Cache.Path) != "" {
		dir := filepath.Dir(c.Cache.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Logging.Dir, err)
		}
	}
	return nil
}

// CacheTTL returns the configured cache validity window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// HTTPTimeout returns the outbound HTTP client timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "animeta", "cache.db")
	}
	return defaultCacheFile
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := fileutil.WriteAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
