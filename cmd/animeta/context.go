package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"animeta/internal/aggregator"
	"animeta/internal/anilist"
	"animeta/internal/cachestore"
	"animeta/internal/config"
	"animeta/internal/jikan"
	"animeta/internal/logging"
	"animeta/internal/services"
)

type rootFlags struct {
	config      string
	json        bool
	memoryCache bool
	logLevel    string
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	serviceOnce sync.Once
	service     *aggregator.Service
	store       *cachestore.Store
	logger      *slog.Logger
	serviceErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if c.flags.memoryCache {
			cfg.Cache.Backend = config.CacheBackendMemory
		}
		if level := strings.ToLower(strings.TrimSpace(c.flags.logLevel)); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureService wires logger, cache, and both catalog clients.
func (c *commandContext) ensureService() (*aggregator.Service, error) {
	c.serviceOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.serviceErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.serviceErr = err
			return
		}
		store, err := cachestore.Open(cfg, logger)
		if err != nil {
			c.serviceErr = err
			return
		}

		httpClient := services.NewHTTPClient(cfg.HTTPTimeout(), cfg.HTTP.UserAgent)
		primary, err := anilist.New(cfg.AniList.Endpoint,
			anilist.WithHTTPClient(httpClient),
			anilist.WithRequestsPerMinute(cfg.AniList.RequestsPerMinute))
		if err != nil {
			_ = store.Close()
			c.serviceErr = err
			return
		}
		secondary, err := jikan.New(cfg.Jikan.BaseURL,
			jikan.WithHTTPClient(httpClient),
			jikan.WithRequestsPerSecond(cfg.Jikan.RequestsPerSecond))
		if err != nil {
			_ = store.Close()
			c.serviceErr = err
			return
		}

		c.logger = logger
		c.store = store
		c.service = aggregator.New(primary, secondary, store, aggregator.WithLogger(logger))
	})
	return c.service, c.serviceErr
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func (c *commandContext) jsonOutput() bool {
	return c.flags.json
}

// requestContext stamps a fresh correlation id for one command invocation.
func requestContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithRequestID(ctx, uuid.NewString())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
