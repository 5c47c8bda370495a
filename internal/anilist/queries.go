package anilist

// MediaSort mirrors the catalog's MediaSort enum. The type name is used as
// the GraphQL variable type.
type MediaSort string

const (
	SortSearchMatch   MediaSort = "SEARCH_MATCH"
	SortScoreDesc     MediaSort = "SCORE_DESC"
	SortStartDateDesc MediaSort = "START_DATE_DESC"
	SortTitleRomaji   MediaSort = "TITLE_ROMAJI"
)

// SortFor maps a user-facing sort mode ("title", "rating", "newest") to the
// catalog sort key. Alphabetical order cannot be combined with full-text
// relevance, so "title" degrades to relevance when query is non-empty.
// Unknown modes rank by relevance.
func SortFor(mode, query string) MediaSort {
	switch mode {
	case "rating":
		return SortScoreDesc
	case "newest":
		return SortStartDateDesc
	case "title":
		if query == "" {
			return SortTitleRomaji
		}
		return SortSearchMatch
	default:
		return SortSearchMatch
	}
}

type totalCountQuery struct {
	Page struct {
		PageInfo struct {
			Total int `graphql:"total"`
		} `graphql:"pageInfo"`
		Media []struct {
			ID int `graphql:"id"`
		} `graphql:"media(type: ANIME)"`
	} `graphql:"Page(perPage: 1)"`
}

type searchQuery struct {
	Page struct {
		Media []Media `graphql:"media(search: $search, genre: $genre, type: ANIME, sort: $sort)"`
	} `graphql:"Page(page: $page, perPage: $perPage)"`
}

type trendingQuery struct {
	Page struct {
		Media []Media `graphql:"media(type: ANIME, sort: TRENDING_DESC)"`
	} `graphql:"Page(page: $page, perPage: $perPage)"`
}

type seasonalQuery struct {
	Page struct {
		Media []Media `graphql:"media(type: ANIME, sort: POPULARITY_DESC, status: RELEASING)"`
	} `graphql:"Page(page: $page, perPage: $perPage)"`
}

type topQuery struct {
	Page struct {
		Media []Media `graphql:"media(type: ANIME, sort: SCORE_DESC)"`
	} `graphql:"Page(page: $page, perPage: $perPage)"`
}

type detailQuery struct {
	Media MediaDetail `graphql:"Media(id: $id, type: ANIME)"`
}
