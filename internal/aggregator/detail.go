package aggregator

import (
	"context"
	"log/slog"
	"strings"

	"animeta/internal/anilist"
	"animeta/internal/cachestore"
	"animeta/internal/catalog"
	"animeta/internal/logging"
	"animeta/internal/services"
)

// DetailByTitle returns the full record for the best match of title. The
// boolean is false when neither catalog has a match.
func (s *Service) DetailByTitle(ctx context.Context, title string) (catalog.Media, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return catalog.Media{}, false
	}
	ctx, logger := s.operation(ctx, "detail")
	key := cachestore.NewKey("details").With("title", title)
	if cached, ok := cachestore.Lookup[catalog.Media](ctx, s.cache, key); ok {
		return cached, true
	}

	media, err := s.primaryDetail(services.WithProvider(ctx, string(catalog.ProvenanceAniList)), title)
	if err == nil {
		media = s.enrich(ctx, logger, media)
		s.cache.Put(ctx, key, media)
		return media, true
	}
	fallback := s.shouldFallback(err)
	s.logPrimaryFailure(logger, err, fallback)
	if !fallback {
		return catalog.Media{}, false
	}

	anime, err := s.secondary.FindByTitle(services.WithProvider(ctx, string(catalog.ProvenanceJikan)), title)
	if err != nil {
		s.logSecondaryFailure(logger, err, "detail unavailable")
		return catalog.Media{}, false
	}
	media = catalog.FromJikan(anime)
	s.cache.Put(ctx, key, media)
	return media, true
}

func (s *Service) primaryDetail(ctx context.Context, title string) (catalog.Media, error) {
	matches, err := s.primary.Search(ctx, anilist.SearchParams{
		Query:   title,
		Sort:    anilist.SortSearchMatch,
		Page:    1,
		PerPage: 1,
	})
	if err != nil {
		return catalog.Media{}, err
	}
	detail, err := s.primary.Detail(ctx, matches[0].ID)
	if err != nil {
		return catalog.Media{}, err
	}
	return catalog.FromAniListDetail(detail), nil
}

// enrich fills gaps in a primary record. Failures leave the record as is.
func (s *Service) enrich(ctx context.Context, logger *slog.Logger, media catalog.Media) catalog.Media {
	if media.Provenance != catalog.ProvenanceAniList {
		return media
	}
	if !media.EpisodesKnown() && media.ExternalID > 0 {
		if count, ok := s.EpisodeCount(ctx, media.ExternalID); ok {
			media.EpisodeCount = count
			logger.Debug("episode count filled from secondary catalog",
				logging.String(logging.FieldEventType, "episode_enrichment"),
				logging.Int("external_id", media.ExternalID),
				logging.Int("episodes", count))
		}
	}
	if len(media.Recommendations) == 0 && len(media.Genres) > 0 {
		media.Recommendations = s.backfillRecommendations(ctx, logger, media)
	}
	return media
}

func (s *Service) backfillRecommendations(ctx context.Context, logger *slog.Logger, media catalog.Media) []catalog.Media {
	genre := media.Genres[0]
	results, err := s.primary.Search(services.WithProvider(ctx, string(catalog.ProvenanceAniList)), anilist.SearchParams{
		Genre:   genre,
		Sort:    anilist.SortScoreDesc,
		Page:    1,
		PerPage: MaxRecommendations + 1,
	})
	if err != nil {
		logger.Debug("recommendation backfill unavailable",
			logging.String(logging.FieldEventType, "recommendation_backfill_failed"),
			logging.String("genre", genre),
			logging.String(logging.FieldFailureKind, services.FailureKind(err)),
			logging.Error(err))
		return nil
	}
	var recommendations []catalog.Media
	for _, candidate := range results {
		if candidate.ID == media.ID {
			continue
		}
		recommendations = append(recommendations, catalog.FromAniList(candidate))
		if len(recommendations) == MaxRecommendations {
			break
		}
	}
	logger.Debug("recommendations back-filled by genre",
		logging.String(logging.FieldEventType, "recommendation_backfill"),
		logging.String("genre", genre),
		logging.Int("count", len(recommendations)))
	return recommendations
}
