package config

const (
	defaultConfigPath        = "~/.config/animeta/config.toml"
	defaultAniListEndpoint   = "https://graphql.anilist.co"
	defaultAniListPerMinute  = 90
	defaultJikanBaseURL      = "https://api.jikan.moe/v4"
	defaultJikanPerSecond    = 3
	defaultCacheFile         = "~/.cache/animeta/cache.db"
	defaultCacheNamespace    = "anime_cache"
	defaultCacheTTLHours     = 24
	defaultCacheMaxEntries   = 5000
	defaultCacheMaxBytes     = 50 << 20
	defaultHTTPTimeout       = 15
	defaultUserAgent         = "animeta/dev"
	defaultServerBind        = "127.0.0.1:7490"
	defaultLogFormat         = "auto"
	defaultLogLevel          = "info"
	CacheBackendSQLite       = "sqlite"
	CacheBackendFile         = "file"
	CacheBackendMemory       = "memory"
	defaultCacheBackend      = CacheBackendSQLite
	defaultFileCacheFilename = "cache.json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		AniList: AniList{
			Endpoint:          defaultAniListEndpoint,
			RequestsPerMinute: defaultAniListPerMinute,
		},
		Jikan: Jikan{
			BaseURL:           defaultJikanBaseURL,
			RequestsPerSecond: defaultJikanPerSecond,
		},
		Cache: Cache{
			Enabled:    true,
			Backend:    defaultCacheBackend,
			Path:       defaultCachePath(),
			Namespace:  defaultCacheNamespace,
			TTLHours:   defaultCacheTTLHours,
			MaxEntries: defaultCacheMaxEntries,
			MaxBytes:   defaultCacheMaxBytes,
		},
		HTTP: HTTP{
			TimeoutSeconds: defaultHTTPTimeout,
			UserAgent:      defaultUserAgent,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
