package aggregator

import (
	"context"

	"animeta/internal/cachestore"
	"animeta/internal/catalog"
)

// Trending returns the trending feed. Fallback: the secondary catalog's
// currently airing top list.
func (s *Service) Trending(ctx context.Context, page, perPage int) []catalog.Media {
	page, perPage = pageArgs(page, perPage, DefaultFeedPerPage)
	key := cachestore.NewKey("trending").With("page", page).With("per_page", perPage)
	return s.fetchList(ctx, "trending", key,
		func(ctx context.Context) ([]catalog.Media, error) {
			media, err := s.primary.Trending(ctx, page, perPage)
			return fromAniList(media), err
		},
		func(ctx context.Context) ([]catalog.Media, error) {
			anime, err := s.secondary.Airing(ctx, page, perPage)
			return fromJikan(anime), err
		})
}

// Seasonal returns currently releasing entries. Fallback: the secondary
// catalog's this-season list.
func (s *Service) Seasonal(ctx context.Context, page, perPage int) []catalog.Media {
	page, perPage = pageArgs(page, perPage, DefaultFeedPerPage)
	key := cachestore.NewKey("seasonal").With("page", page).With("per_page", perPage)
	return s.fetchList(ctx, "seasonal", key,
		func(ctx context.Context) ([]catalog.Media, error) {
			media, err := s.primary.Seasonal(ctx, page, perPage)
			return fromAniList(media), err
		},
		func(ctx context.Context) ([]catalog.Media, error) {
			anime, err := s.secondary.SeasonNow(ctx, page, perPage)
			return fromJikan(anime), err
		})
}

// TopRated returns entries by descending score.
func (s *Service) TopRated(ctx context.Context, page, perPage int) []catalog.Media {
	page, perPage = pageArgs(page, perPage, DefaultTopPerPage)
	key := cachestore.NewKey("toprated").With("page", page).With("per_page", perPage)
	return s.fetchList(ctx, "top_rated", key,
		func(ctx context.Context) ([]catalog.Media, error) {
			media, err := s.primary.Top(ctx, page, perPage)
			return fromAniList(media), err
		},
		func(ctx context.Context) ([]catalog.Media, error) {
			anime, err := s.secondary.Top(ctx, page, perPage)
			return fromJikan(anime), err
		})
}

func pageArgs(page, perPage, defaultPerPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	return page, perPage
}
