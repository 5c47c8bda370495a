package aggregator

import (
	"context"
	"strings"

	"animeta/internal/anilist"
	"animeta/internal/cachestore"
	"animeta/internal/catalog"
	"animeta/internal/genres"
	"animeta/internal/jikan"
)

// SortMode is the caller-facing search ordering.
type SortMode string

const (
	SortTitle  SortMode = "title"
	SortRating SortMode = "rating"
	SortNewest SortMode = "newest"
)

// SearchQuery describes a catalog search. Genre "All" or empty means no
// genre filter.
type SearchQuery struct {
	Text  string
	Genre string
	Sort  SortMode
	Page  int
}

// Resolve returns the effective query: trimmed fields, page at least 1,
// default sort, canonical genre spelling, and a text query that exactly
// names a known genre reinterpreted as a genre browse when no genre
// filter was given.
func (q SearchQuery) Resolve() SearchQuery {
	q.Text = strings.TrimSpace(q.Text)
	q.Genre = strings.TrimSpace(q.Genre)
	if genres.IsUnset(q.Genre) {
		q.Genre = ""
	}
	if canonical, ok := genres.Canonical(q.Genre); ok {
		q.Genre = canonical
	}
	if q.Genre == "" && q.Text != "" {
		if canonical, ok := genres.Canonical(q.Text); ok {
			q.Genre = canonical
			q.Text = ""
		}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	switch q.Sort {
	case SortTitle, SortRating, SortNewest:
	default:
		q.Sort = SortNewest
	}
	return q
}

// CacheKey returns the key for a resolved query.
func (q SearchQuery) CacheKey() cachestore.Key {
	return cachestore.NewKey("search").
		With("q", q.Text).
		With("genre", q.Genre).
		With("sort", string(q.Sort)).
		With("page", q.Page)
}

// Search returns one page of matching records. A query that differs from
// a genre browse only in being spelled as text shares its cache entry.
func (s *Service) Search(ctx context.Context, query SearchQuery) []catalog.Media {
	q := query.Resolve()
	return s.fetchList(ctx, "search", q.CacheKey(),
		func(ctx context.Context) ([]catalog.Media, error) {
			media, err := s.primary.Search(ctx, anilist.SearchParams{
				Query:   q.Text,
				Genre:   q.Genre,
				Sort:    anilist.SortFor(string(q.Sort), q.Text),
				Page:    q.Page,
				PerPage: SearchPageSize,
			})
			return fromAniList(media), err
		},
		func(ctx context.Context) ([]catalog.Media, error) {
			anime, err := s.secondary.Search(ctx, jikan.SearchParams{
				Query: q.Text,
				Genre: q.Genre,
				Sort:  string(q.Sort),
				Page:  q.Page,
				Limit: SearchPageSize,
			})
			return fromJikan(anime), err
		})
}
