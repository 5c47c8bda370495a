package aggregator

import (
	"context"
	"errors"
	"log/slog"

	"animeta/internal/anilist"
	"animeta/internal/cachestore"
	"animeta/internal/catalog"
	"animeta/internal/jikan"
	"animeta/internal/logging"
	"animeta/internal/services"
)

const (
	// DefaultTotalCount is reported when neither catalog can be probed.
	DefaultTotalCount = 18000
	// DefaultFeedPerPage is the page size for trending and seasonal feeds.
	DefaultFeedPerPage = 20
	// DefaultTopPerPage is the page size for the top-rated feed.
	DefaultTopPerPage = 25
	// SearchPageSize is the fixed page size for search.
	SearchPageSize = 25
	// MaxRecommendations bounds back-filled recommendations.
	MaxRecommendations = 10
)

// FallbackOnEmpty is the default policy: an empty primary result is not
// trusted as authoritative and the secondary catalog is consulted.
const FallbackOnEmpty = true

// Policy holds the named fallback rules.
type Policy struct {
	FallbackOnEmpty bool
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{FallbackOnEmpty: FallbackOnEmpty}
}

// Primary is the structured-query catalog.
type Primary interface {
	TotalCount(ctx context.Context) (int, error)
	Search(ctx context.Context, params anilist.SearchParams) ([]anilist.Media, error)
	Trending(ctx context.Context, page, perPage int) ([]anilist.Media, error)
	Seasonal(ctx context.Context, page, perPage int) ([]anilist.Media, error)
	Top(ctx context.Context, page, perPage int) ([]anilist.Media, error)
	Detail(ctx context.Context, id int) (anilist.MediaDetail, error)
}

// Secondary is the REST catalog used for fallback and enrichment.
type Secondary interface {
	TotalCount(ctx context.Context) (int, error)
	Search(ctx context.Context, params jikan.SearchParams) ([]jikan.Anime, error)
	Airing(ctx context.Context, page, limit int) ([]jikan.Anime, error)
	SeasonNow(ctx context.Context, page, limit int) ([]jikan.Anime, error)
	Top(ctx context.Context, page, limit int) ([]jikan.Anime, error)
	FindByTitle(ctx context.Context, title string) (jikan.Anime, error)
	Episodes(ctx context.Context, id int) (int, bool, error)
}

var (
	_ Primary   = (*anilist.Client)(nil)
	_ Secondary = (*jikan.Client)(nil)
)

// Service orchestrates cache, primary, and secondary catalogs.
type Service struct {
	primary   Primary
	secondary Secondary
	cache     *cachestore.Store
	logger    *slog.Logger
	policy    Policy
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPolicy overrides the fallback policy.
func WithPolicy(policy Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// New builds a Service. A nil cache disables caching.
func New(primary Primary, secondary Secondary, cache *cachestore.Store, opts ...Option) *Service {
	if cache == nil {
		cache = cachestore.New(nil)
	}
	s := &Service{
		primary:   primary,
		secondary: secondary,
		cache:     cache,
		logger:    logging.NewNop(),
		policy:    DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "aggregator")
	return s
}

// Policy returns the active fallback policy.
func (s *Service) Policy() Policy {
	return s.policy
}

// Cache exposes the underlying store for maintenance commands.
func (s *Service) Cache() *cachestore.Store {
	return s.cache
}

func (s *Service) operation(ctx context.Context, op string) (context.Context, *slog.Logger) {
	ctx = services.WithOperation(ctx, op)
	return ctx, logging.WithContext(ctx, s.logger)
}

// shouldFallback applies the policy to a primary failure.
func (s *Service) shouldFallback(err error) bool {
	if errors.Is(err, services.ErrEmptyResult) {
		return s.policy.FallbackOnEmpty
	}
	return true
}

func (s *Service) logPrimaryFailure(logger *slog.Logger, err error, fallback bool) {
	if errors.Is(err, services.ErrEmptyResult) {
		logger.Info("primary catalog returned no results",
			logging.String(logging.FieldEventType, "primary_empty"),
			logging.String(logging.FieldProvider, string(catalog.ProvenanceAniList)),
			logging.Bool("fallback", fallback))
		return
	}
	impact := "results served from secondary catalog"
	if !fallback {
		impact = "empty result returned"
	}
	logging.WarnWithContext(logger, "primary catalog request failed", "primary_fallback",
		logging.String(logging.FieldProvider, string(catalog.ProvenanceAniList)),
		logging.String(logging.FieldFailureKind, services.FailureKind(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check anilist availability and rate limits"),
		logging.String(logging.FieldImpact, impact))
}

func (s *Service) logSecondaryFailure(logger *slog.Logger, err error, impact string) {
	if errors.Is(err, services.ErrEmptyResult) {
		logger.Info("secondary catalog returned no results",
			logging.String(logging.FieldEventType, "secondary_empty"),
			logging.String(logging.FieldProvider, string(catalog.ProvenanceJikan)))
		return
	}
	logging.WarnWithContext(logger, "secondary catalog request failed", "secondary_failed",
		logging.String(logging.FieldProvider, string(catalog.ProvenanceJikan)),
		logging.String(logging.FieldFailureKind, services.FailureKind(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check jikan availability and rate limits"),
		logging.String(logging.FieldImpact, impact))
}

// fetchList runs the cache, primary, secondary sequence shared by list
// operations. Empty results are never cached.
func (s *Service) fetchList(
	ctx context.Context,
	op string,
	key cachestore.Key,
	primary func(context.Context) ([]catalog.Media, error),
	secondary func(context.Context) ([]catalog.Media, error),
) []catalog.Media {
	ctx, logger := s.operation(ctx, op)
	if cached, ok := cachestore.Lookup[[]catalog.Media](ctx, s.cache, key); ok {
		return cached
	}

	results, err := primary(services.WithProvider(ctx, string(catalog.ProvenanceAniList)))
	if err == nil {
		s.cache.Put(ctx, key, results)
		return results
	}
	fallback := s.shouldFallback(err)
	s.logPrimaryFailure(logger, err, fallback)
	if !fallback {
		return []catalog.Media{}
	}

	results, err = secondary(services.WithProvider(ctx, string(catalog.ProvenanceJikan)))
	if err != nil {
		s.logSecondaryFailure(logger, err, "empty result returned")
		return []catalog.Media{}
	}
	s.cache.Put(ctx, key, results)
	return results
}

func fromAniList(media []anilist.Media) []catalog.Media {
	out := make([]catalog.Media, 0, len(media))
	for _, m := range media {
		out = append(out, catalog.FromAniList(m))
	}
	return out
}

func fromJikan(anime []jikan.Anime) []catalog.Media {
	out := make([]catalog.Media, 0, len(anime))
	for _, a := range anime {
		out = append(out, catalog.FromJikan(a))
	}
	return out
}
