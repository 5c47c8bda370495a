package jikan

// Resource is a named reference (genre, studio) attached to an entry.
type Resource struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// ImageSet lists the renditions for one image format.
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Trailer describes the promotional video of an entry.
type Trailer struct {
	YoutubeID string `json:"youtube_id"`
	URL       string `json:"url"`
	EmbedURL  string `json:"embed_url"`
}

// Anime is one catalog entry as returned by list and lookup endpoints.
type Anime struct {
	MalID         int    `json:"mal_id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	TitleEnglish  string `json:"title_english"`
	TitleJapanese string `json:"title_japanese"`
	Images        struct {
		JPG  ImageSet `json:"jpg"`
		WebP ImageSet `json:"webp"`
	} `json:"images"`
	Trailer  Trailer    `json:"trailer"`
	Type     string     `json:"type"`
	Episodes *int       `json:"episodes"`
	Status   string     `json:"status"`
	Duration string     `json:"duration"`
	Rating   string     `json:"rating"`
	Score    *float64   `json:"score"`
	Synopsis string     `json:"synopsis"`
	Season   string     `json:"season"`
	Year     int        `json:"year"`
	Studios  []Resource `json:"studios"`
	Genres   []Resource `json:"genres"`
}

// Pagination is the paging envelope of list endpoints.
type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}

// ListResponse models paginated list payloads.
type ListResponse struct {
	Data       []Anime    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type itemResponse struct {
	Data *Anime `json:"data"`
}
