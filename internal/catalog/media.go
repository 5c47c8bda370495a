package catalog

import "animeta/internal/textutil"

// Provenance names the provider that produced a record.
type Provenance string

const (
	ProvenanceAniList Provenance = "anilist"
	ProvenanceJikan   Provenance = "jikan"
)

// Status is the show's own release state, not a user's watch status.
type Status string

const (
	StatusReleasing      Status = "RELEASING"
	StatusFinished       Status = "FINISHED"
	StatusNotYetReleased Status = "NOT_YET_RELEASED"
	StatusCancelled      Status = "CANCELLED"
	StatusHiatus         Status = "HIATUS"
	StatusUnknown        Status = "UNKNOWN"
)

// Relation kinds kept by the normalizer.
const (
	RelationSequel      = "SEQUEL"
	RelationPrequel     = "PREQUEL"
	RelationSideStory   = "SIDE_STORY"
	RelationParent      = "PARENT"
	RelationAlternative = "ALTERNATIVE"
	RelationSummary     = "SUMMARY"
	RelationSpinOff     = "SPIN_OFF"
)

// Relation is a lightweight cross-reference to a related entry.
type Relation struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	CoverImageURL string `json:"coverImageUrl"`
	Kind          string `json:"relationKind"`
	Format        string `json:"format"`
}

// Media is the provider-agnostic normalized record. EpisodeCount 0 means
// unknown. Score is on a 0-100 scale. ID is scoped to Provenance; ExternalID
// is the secondary catalog id of the same show when known.
type Media struct {
	ID              int        `json:"id"`
	ExternalID      int        `json:"externalId,omitempty"`
	Title           string     `json:"title"`
	NativeTitle     string     `json:"nativeTitle,omitempty"`
	CoverImageURL   string     `json:"coverImageUrl"`
	BannerImageURL  string     `json:"bannerImageUrl,omitempty"`
	Synopsis        string     `json:"synopsis"`
	EpisodeCount    int        `json:"episodeCount"`
	Status          Status     `json:"lifecycleStatus"`
	Format          string     `json:"format"`
	Season          string     `json:"season,omitempty"`
	Year            int        `json:"year,omitempty"`
	Score           int        `json:"score"`
	Genres          []string   `json:"genres"`
	Studios         []string   `json:"studios"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
	Adult           bool       `json:"adult"`
	TrailerURL      string     `json:"trailerUrl,omitempty"`
	Provenance      Provenance `json:"provenance"`
	Relations       []Relation `json:"relations,omitempty"`
	Recommendations []Media    `json:"recommendations,omitempty"`
}

// PlainSynopsis returns the synopsis with markup removed.
func (m Media) PlainSynopsis() string {
	return textutil.StripMarkup(m.Synopsis)
}

// EpisodesKnown reports whether EpisodeCount carries a real value.
func (m Media) EpisodesKnown() bool {
	return m.EpisodeCount > 0
}

// HasGenre reports whether the record is tagged with genre, ignoring case.
func (m Media) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if textutil.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
