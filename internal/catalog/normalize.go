package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"animeta/internal/anilist"
	"animeta/internal/jikan"
	"animeta/internal/textutil"
)

var (
	digitRun = regexp.MustCompile(`\d+`)

	keptRelations = map[string]struct{}{
		RelationSequel:      {},
		RelationPrequel:     {},
		RelationSideStory:   {},
		RelationParent:      {},
		RelationAlternative: {},
		RelationSummary:     {},
		RelationSpinOff:     {},
	}

	anilistStatuses = map[string]Status{
		"RELEASING":        StatusReleasing,
		"FINISHED":         StatusFinished,
		"NOT_YET_RELEASED": StatusNotYetReleased,
		"CANCELLED":        StatusCancelled,
		"HIATUS":           StatusHiatus,
	}

	jikanStatuses = map[string]Status{
		"currently airing": StatusReleasing,
		"finished airing":  StatusFinished,
		"not yet aired":    StatusNotYetReleased,
	}
)

// FromAniList normalizes a list-shaped primary record.
func FromAniList(m anilist.Media) Media {
	studios := make([]string, 0, len(m.Studios.Nodes))
	for _, node := range m.Studios.Nodes {
		if name := strings.TrimSpace(node.Name); name != "" {
			studios = append(studios, name)
		}
	}
	title := firstNonEmpty(m.Title.English, m.Title.Romaji, m.Title.Native)
	return Media{
		ID:              recordID(m.ID, title),
		ExternalID:      max(0, m.IDMal),
		Title:           title,
		NativeTitle:     m.Title.Native,
		CoverImageURL:   firstNonEmpty(m.CoverImage.ExtraLarge, m.CoverImage.Large),
		BannerImageURL:  m.BannerImage,
		Synopsis:        m.Description,
		EpisodeCount:    max(0, m.Episodes),
		Status:          anilistStatus(m.Status),
		Format:          normalizeFormat(m.Format),
		Season:          strings.ToUpper(strings.TrimSpace(m.Season)),
		Year:            max(0, m.SeasonYear),
		Score:           clampScore(m.MeanScore),
		Genres:          copyStrings(m.Genres),
		Studios:         studios,
		DurationMinutes: max(0, m.Duration),
		Adult:           m.IsAdult,
		Provenance:      ProvenanceAniList,
	}
}

// FromAniListDetail normalizes a detail record, adding trailer, filtered
// relations, and recommendation stubs.
func FromAniListDetail(d anilist.MediaDetail) Media {
	media := FromAniList(d.Media)
	if d.Trailer != nil && strings.EqualFold(d.Trailer.Site, "youtube") {
		media.TrailerURL = youtubeEmbed(d.Trailer.ID)
	}

	for _, edge := range d.Relations.Edges {
		kind := strings.ToUpper(strings.TrimSpace(edge.RelationType))
		if _, ok := keptRelations[kind]; !ok || edge.Node.ID == 0 {
			continue
		}
		media.Relations = append(media.Relations, Relation{
			ID:            edge.Node.ID,
			Title:         edge.Node.Title.Romaji,
			CoverImageURL: edge.Node.CoverImage.Medium,
			Kind:          kind,
			Format:        normalizeFormat(edge.Node.Format),
		})
	}

	for _, node := range d.Recommendations.Nodes {
		rec := node.MediaRecommendation
		if rec == nil || rec.ID == 0 {
			continue
		}
		media.Recommendations = append(media.Recommendations, Media{
			ID:            rec.ID,
			Title:         rec.Title.Romaji,
			CoverImageURL: rec.CoverImage.Large,
			Status:        StatusUnknown,
			Score:         clampScore(rec.MeanScore),
			Genres:        []string{},
			Studios:       []string{},
			Provenance:    ProvenanceAniList,
		})
	}
	return media
}

// FromJikan normalizes a secondary record.
func FromJikan(a jikan.Anime) Media {
	genres := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			genres = append(genres, name)
		}
	}
	studios := make([]string, 0, len(a.Studios))
	for _, s := range a.Studios {
		if name := strings.TrimSpace(s.Name); name != "" {
			studios = append(studios, name)
		}
	}

	title := firstNonEmpty(a.Title, a.TitleEnglish, a.TitleJapanese)
	media := Media{
		ID:              recordID(a.MalID, title),
		ExternalID:      max(0, a.MalID),
		Title:           title,
		NativeTitle:     a.TitleJapanese,
		CoverImageURL:   firstNonEmpty(a.Images.JPG.LargeImageURL, a.Images.WebP.LargeImageURL, a.Images.JPG.ImageURL),
		Synopsis:        a.Synopsis,
		Status:          jikanStatus(a.Status),
		Format:          normalizeFormat(a.Type),
		Season:          strings.ToUpper(strings.TrimSpace(a.Season)),
		Year:            max(0, a.Year),
		Genres:          genres,
		Studios:         studios,
		DurationMinutes: ParseDuration(a.Duration),
		Adult:           AdultRating(a.Rating),
		Provenance:      ProvenanceJikan,
	}
	if a.Episodes != nil {
		media.EpisodeCount = max(0, *a.Episodes)
	}
	if a.Score != nil {
		media.Score = RescaleTenPoint(*a.Score)
	}
	if a.Trailer.YoutubeID != "" {
		media.TrailerURL = youtubeEmbed(a.Trailer.YoutubeID)
	}
	return media
}

// RescaleTenPoint converts a 0-10 score to the canonical 0-100 scale.
func RescaleTenPoint(score float64) int {
	return clampScore(int(math.Round(score * 10)))
}

// ParseDuration extracts the first run of digits from a free-text duration
// such as "24 min per ep". It returns 0 when no digits are present.
func ParseDuration(text string) int {
	run := digitRun.FindString(text)
	if run == "" {
		return 0
	}
	minutes, err := strconv.Atoi(run)
	if err != nil {
		return 0
	}
	return minutes
}

// AdultRating reports whether a content rating string marks adult content.
func AdultRating(rating string) bool {
	folded := textutil.Fold(rating)
	return strings.Contains(folded, "rx") || strings.Contains(folded, "hentai")
}

func anilistStatus(raw string) Status {
	if status, ok := anilistStatuses[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return status
	}
	return StatusUnknown
}

func jikanStatus(raw string) Status {
	if status, ok := jikanStatuses[textutil.Fold(raw)]; ok {
		return status
	}
	return StatusUnknown
}

// normalizeFormat maps both vocabularies ("TV Special", "Movie", "TV_SHORT")
// onto upper snake case.
func normalizeFormat(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return strings.ToUpper(strings.Join(strings.Fields(raw), "_"))
}

func youtubeEmbed(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}

func clampScore(score int) int {
	return min(100, max(0, score))
}

// recordID returns the provider id, or a title-derived id when the provider
// sent none.
func recordID(id int, title string) int {
	if id > 0 || title == "" {
		return max(0, id)
	}
	return textutil.StableID(title)
}

func copyStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
