package aggregator

import (
	"context"

	"animeta/internal/cachestore"
	"animeta/internal/catalog"
	"animeta/internal/logging"
	"animeta/internal/services"
)

var totalCountKey = cachestore.NewKey("total_count")

// TotalCount returns the catalog size, cached for the store TTL.
func (s *Service) TotalCount(ctx context.Context) int {
	ctx, _ = s.operation(ctx, "total_count")
	if cached, ok := cachestore.Lookup[int](ctx, s.cache, totalCountKey); ok && cached > 0 {
		return cached
	}
	return s.probeTotalCount(ctx)
}

// RefreshTotalCount bypasses the cached value and probes the catalogs again.
func (s *Service) RefreshTotalCount(ctx context.Context) int {
	ctx, _ = s.operation(ctx, "refresh_total_count")
	return s.probeTotalCount(ctx)
}

// probeTotalCount asks the primary, then the secondary. The default is
// returned without being cached.
func (s *Service) probeTotalCount(ctx context.Context) int {
	logger := logging.WithContext(ctx, s.logger)
	count, err := s.primary.TotalCount(services.WithProvider(ctx, string(catalog.ProvenanceAniList)))
	if err == nil && count > 0 {
		s.cache.Put(ctx, totalCountKey, count)
		return count
	}
	if err != nil {
		fallback := s.shouldFallback(err)
		s.logPrimaryFailure(logger, err, fallback)
		if !fallback {
			return DefaultTotalCount
		}
	}

	count, err = s.secondary.TotalCount(services.WithProvider(ctx, string(catalog.ProvenanceJikan)))
	if err == nil && count > 0 {
		s.cache.Put(ctx, totalCountKey, count)
		return count
	}
	if err != nil {
		s.logSecondaryFailure(logger, err, "default total count reported")
	}
	return DefaultTotalCount
}

// EpisodeCount returns the episode count the secondary catalog reports for
// id. Unknown counts are not cached.
func (s *Service) EpisodeCount(ctx context.Context, secondaryID int) (int, bool) {
	if secondaryID <= 0 {
		return 0, false
	}
	ctx, logger := s.operation(ctx, "episode_count")
	key := cachestore.NewKey("episodes").With("id", secondaryID)
	if cached, ok := cachestore.Lookup[int](ctx, s.cache, key); ok && cached > 0 {
		return cached, true
	}
	count, ok, err := s.secondary.Episodes(services.WithProvider(ctx, string(catalog.ProvenanceJikan)), secondaryID)
	if err != nil {
		s.logSecondaryFailure(logger, err, "episode count left unknown")
		return 0, false
	}
	if !ok {
		return 0, false
	}
	s.cache.Put(ctx, key, count)
	return count, true
}
