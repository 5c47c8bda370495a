package anilist

// Title holds the localized titles of a media entry.
type Title struct {
	Romaji  string `graphql:"romaji"`
	English string `graphql:"english"`
	Native  string `graphql:"native"`
}

// CoverImage lists the cover renditions requested for list and detail queries.
type CoverImage struct {
	ExtraLarge string `graphql:"extraLarge"`
	Large      string `graphql:"large"`
}

// StudioConnection is the main-studio connection of a media entry.
type StudioConnection struct {
	Nodes []struct {
		Name string `graphql:"name"`
	} `graphql:"nodes"`
}

// Media is the list-shaped media record returned by search and feed queries.
type Media struct {
	ID          int              `graphql:"id"`
	IDMal       int              `graphql:"idMal"`
	Title       Title            `graphql:"title"`
	CoverImage  CoverImage       `graphql:"coverImage"`
	BannerImage string           `graphql:"bannerImage"`
	Description string           `graphql:"description"`
	Episodes    int              `graphql:"episodes"`
	MeanScore   int              `graphql:"meanScore"`
	Format      string           `graphql:"format"`
	Status      string           `graphql:"status"`
	Season      string           `graphql:"season"`
	SeasonYear  int              `graphql:"seasonYear"`
	Genres      []string         `graphql:"genres"`
	Duration    int              `graphql:"duration"`
	Studios     StudioConnection `graphql:"studios(isMain: true)"`
	IsAdult     bool             `graphql:"isAdult"`
}

// Trailer identifies a trailer video on an external site.
type Trailer struct {
	Site string `graphql:"site"`
	ID   string `graphql:"id"`
}

// RelationEdge is one edge of the relation graph of a media entry.
type RelationEdge struct {
	RelationType string `graphql:"relationType(version: 2)"`
	Node         struct {
		ID    int `graphql:"id"`
		Title struct {
			Romaji string `graphql:"romaji"`
		} `graphql:"title"`
		Format     string `graphql:"format"`
		Status     string `graphql:"status"`
		CoverImage struct {
			Medium string `graphql:"medium"`
		} `graphql:"coverImage"`
	} `graphql:"node"`
}

// Recommendation is a community recommendation stub.
type Recommendation struct {
	ID    int `graphql:"id"`
	Title struct {
		Romaji string `graphql:"romaji"`
	} `graphql:"title"`
	CoverImage struct {
		Large string `graphql:"large"`
	} `graphql:"coverImage"`
	MeanScore int `graphql:"meanScore"`
}

// RecommendationNode wraps a recommended entry; the entry may be null.
type RecommendationNode struct {
	MediaRecommendation *Recommendation `graphql:"mediaRecommendation"`
}

// MediaDetail is the detail-shaped record: list fields plus trailer,
// relations, and up to ten recommendations.
type MediaDetail struct {
	Media
	Trailer   *Trailer `graphql:"trailer"`
	Relations struct {
		Edges []RelationEdge `graphql:"edges"`
	} `graphql:"relations"`
	Recommendations struct {
		Nodes []RecommendationNode `graphql:"nodes"`
	} `graphql:"recommendations(sort: RATING_DESC, perPage: 10)"`
}
