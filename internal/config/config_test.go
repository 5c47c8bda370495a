package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"animeta/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("ANIMETA_CACHE_PATH", "")
	t.Setenv("ANIMETA_LOG_LEVEL", "")
	// Equivalent of t.Chdir (Go 1.24+) for older toolchains.
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".cache", "animeta", "cache.db")
	if cfg.Cache.Path != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Cache.Path, wantCache)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Fatalf("expected sqlite backend by default, got %q", cfg.Cache.Backend)
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Fatalf("expected 24h TTL, got %v", cfg.CacheTTL())
	}
	if cfg.AniList.Endpoint != "https://graphql.anilist.co" {
		t.Fatalf("unexpected anilist endpoint: %q", cfg.AniList.Endpoint)
	}
	if cfg.Jikan.BaseURL != "https://api.jikan.moe/v4" {
		t.Fatalf("unexpected jikan base url: %q", cfg.Jikan.BaseURL)
	}
	if cfg.Logging.Format != "auto" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Server.Bind != "127.0.0.1:7490" {
		t.Fatalf("unexpected server bind: %q", cfg.Server.Bind)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANIMETA_CACHE_PATH", "")
	t.Setenv("ANIMETA_LOG_LEVEL", "")

	cfgPath := filepath.Join(tempHome, "animeta.toml")
	payload := map[string]any{
		"jikan": map[string]any{
			"base_url":            "http://localhost:9999/v4/",
			"requests_per_second": 0.5,
		},
		"cache": map[string]any{
			"backend":   "file",
			"path":      "~/cache/animeta.db",
			"ttl_hours": 2,
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
			"dir":    "~/logs",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal toml: %v", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != cfgPath {
		t.Fatalf("expected config to be found at %s, got %s (exists=%v)", cfgPath, resolved, exists)
	}
	if cfg.Jikan.BaseURL != "http://localhost:9999/v4" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Jikan.BaseURL)
	}
	if cfg.Cache.Path != filepath.Join(tempHome, "cache", "cache.json") {
		t.Fatalf("expected file backend to use cache.json, got %q", cfg.Cache.Path)
	}
	if cfg.CacheTTL() != 2*time.Hour {
		t.Fatalf("unexpected ttl: %v", cfg.CacheTTL())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging to be lowercased, got %+v", cfg.Logging)
	}
	if cfg.Logging.Dir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Logging.Dir)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{filepath.Join(tempHome, "cache"), filepath.Join(tempHome, "logs")} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist", dir)
		}
	}
}

func TestCachePathEnvOverride(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	override := filepath.Join(tempHome, "elsewhere", "cache.db")
	t.Setenv("ANIMETA_CACHE_PATH", override)

	cfg, _, _, err := config.Load(filepath.Join(tempHome, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cache.Path != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Cache.Path)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Cache.Backend = "redis" }, "cache.backend"},
		{"ttl", func(c *config.Config) { c.Cache.TTLHours = 0 }, "cache.ttl_hours"},
		{"endpoint", func(c *config.Config) { c.AniList.Endpoint = "ftp://example" }, "anilist.endpoint"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"jikan pacing", func(c *config.Config) { c.Jikan.RequestsPerSecond = -1 }, "jikan.requests_per_second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateSkipsCacheWhenDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	cfg.Cache.Backend = "bogus"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled cache to skip validation, got %v", err)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ANIMETA_LOG_LEVEL", "")
	target := filepath.Join(tempHome, "conf", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Cache.MaxEntries != 5000 {
		t.Fatalf("unexpected sample max entries: %d", cfg.Cache.MaxEntries)
	}
}
