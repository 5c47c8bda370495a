package catalog

import (
	"encoding/json"
	"reflect"
	"testing"

	"animeta/internal/anilist"
	"animeta/internal/jikan"
	"animeta/internal/textutil"
)

func ptr[T any](v T) *T { return &v }

func TestJikanScoreRescale(t *testing.T) {
	media := FromJikan(jikan.Anime{MalID: 1, Title: "X", Score: ptr(8.5)})
	if media.Score != 85 {
		t.Fatalf("expected 85, got %d", media.Score)
	}
	if FromJikan(jikan.Anime{MalID: 1}).Score != 0 {
		t.Fatal("expected missing score to normalize to 0")
	}
	if got := RescaleTenPoint(7.86); got != 79 {
		t.Fatalf("expected rounding to 79, got %d", got)
	}
}

func TestAniListScoreUnchanged(t *testing.T) {
	media := FromAniList(anilist.Media{ID: 1, MeanScore: 72})
	if media.Score != 72 {
		t.Fatalf("expected 72, got %d", media.Score)
	}
}

func TestScoreMonotonic(t *testing.T) {
	prev := -1
	for raw := 0.0; raw <= 10.0; raw += 0.1 {
		got := RescaleTenPoint(raw)
		if got < prev {
			t.Fatalf("rescale not monotonic at %.1f: %d < %d", raw, got, prev)
		}
		prev = got
	}
}

func TestRelationFilter(t *testing.T) {
	var detail anilist.MediaDetail
	detail.ID = 1
	for i, kind := range []string{"SEQUEL", "CHARACTER", "PREQUEL", "OTHER"} {
		var edge anilist.RelationEdge
		edge.RelationType = kind
		edge.Node.ID = 10 + i
		edge.Node.Format = "TV"
		detail.Relations.Edges = append(detail.Relations.Edges, edge)
	}

	media := FromAniListDetail(detail)
	kinds := make([]string, 0, len(media.Relations))
	for _, rel := range media.Relations {
		kinds = append(kinds, rel.Kind)
	}
	if !reflect.DeepEqual(kinds, []string{"SEQUEL", "PREQUEL"}) {
		t.Fatalf("expected SEQUEL and PREQUEL, got %v", kinds)
	}
}

func TestFromAniListTitleAndCover(t *testing.T) {
	var m anilist.Media
	m.ID = 5
	m.Title = anilist.Title{Romaji: "Shingeki no Kyojin", Native: "進撃の巨人"}
	m.CoverImage = anilist.CoverImage{Large: "large.jpg"}
	media := FromAniList(m)
	if media.Title != "Shingeki no Kyojin" {
		t.Fatalf("expected romaji fallback, got %q", media.Title)
	}
	if media.CoverImageURL != "large.jpg" {
		t.Fatalf("expected large cover fallback, got %q", media.CoverImageURL)
	}
	m.Title.English = "Attack on Titan"
	m.CoverImage.ExtraLarge = "xl.jpg"
	media = FromAniList(m)
	if media.Title != "Attack on Titan" || media.CoverImageURL != "xl.jpg" {
		t.Fatalf("expected preferred fields, got %q %q", media.Title, media.CoverImageURL)
	}
	if media.Provenance != ProvenanceAniList || media.Status != StatusUnknown {
		t.Fatalf("unexpected provenance/status: %s %s", media.Provenance, media.Status)
	}
	if media.Genres == nil || media.Studios == nil {
		t.Fatal("expected non-nil genre and studio slices")
	}
}

func TestFromAniListDetailExtras(t *testing.T) {
	var d anilist.MediaDetail
	d.ID = 7
	d.IDMal = 70
	d.Status = "RELEASING"
	d.Format = "TV_SHORT"
	d.Trailer = &anilist.Trailer{Site: "youtube", ID: "xyz"}
	d.Recommendations.Nodes = []anilist.RecommendationNode{
		{MediaRecommendation: &anilist.Recommendation{ID: 8, MeanScore: 64}},
		{},
	}

	media := FromAniListDetail(d)
	if media.TrailerURL != "https://www.youtube.com/embed/xyz" {
		t.Fatalf("unexpected trailer url %q", media.TrailerURL)
	}
	if media.ExternalID != 70 || media.Status != StatusReleasing || media.Format != "TV_SHORT" {
		t.Fatalf("unexpected fields: %+v", media)
	}
	if len(media.Recommendations) != 1 || media.Recommendations[0].ID != 8 || media.Recommendations[0].Score != 64 {
		t.Fatalf("unexpected recommendations: %+v", media.Recommendations)
	}
	if media.Relations != nil {
		t.Fatalf("expected nil relations, got %+v", media.Relations)
	}
}

func TestFromJikan(t *testing.T) {
	a := jikan.Anime{
		MalID:         21,
		Title:         "One Piece",
		TitleJapanese: "ワンピース",
		Type:          "TV Special",
		Episodes:      ptr(12),
		Status:        "Currently Airing",
		Duration:      "1 hr 30 min",
		Rating:        "Rx - Hentai",
		Season:        "fall",
		Year:          1999,
		Studios:       []jikan.Resource{{Name: "Toei Animation"}},
		Genres:        []jikan.Resource{{Name: "Action"}, {Name: "Adventure"}},
		Trailer:       jikan.Trailer{YoutubeID: "abc"},
	}
	a.Images.JPG = jikan.ImageSet{ImageURL: "small.jpg", LargeImageURL: "large.jpg"}

	media := FromJikan(a)
	want := Media{
		ID:              21,
		ExternalID:      21,
		Title:           "One Piece",
		NativeTitle:     "ワンピース",
		CoverImageURL:   "large.jpg",
		EpisodeCount:    12,
		Status:          StatusReleasing,
		Format:          "TV_SPECIAL",
		Season:          "FALL",
		Year:            1999,
		Genres:          []string{"Action", "Adventure"},
		Studios:         []string{"Toei Animation"},
		DurationMinutes: 1,
		Adult:           true,
		TrailerURL:      "https://www.youtube.com/embed/abc",
		Provenance:      ProvenanceJikan,
	}
	if !reflect.DeepEqual(media, want) {
		t.Fatalf("FromJikan mismatch:\n got %+v\nwant %+v", media, want)
	}
}

func TestMissingProviderIDFallsBackToTitleHash(t *testing.T) {
	fromJikan := FromJikan(jikan.Anime{Title: "Cowboy Bebop"})
	if want := textutil.StableID("Cowboy Bebop"); fromJikan.ID != want || fromJikan.ExternalID != 0 {
		t.Fatalf("expected id %d and no external id, got %d/%d", want, fromJikan.ID, fromJikan.ExternalID)
	}
	fromAniList := FromAniList(anilist.Media{Title: anilist.Title{Romaji: "Cowboy Bebop"}})
	if fromAniList.ID != fromJikan.ID {
		t.Fatalf("expected same derived id across providers, got %d and %d", fromAniList.ID, fromJikan.ID)
	}
	if got := FromJikan(jikan.Anime{MalID: 1, Title: "Cowboy Bebop"}).ID; got != 1 {
		t.Fatalf("expected provider id to win, got %d", got)
	}
	if got := FromJikan(jikan.Anime{}).ID; got != 0 {
		t.Fatalf("expected zero id for untitled record, got %d", got)
	}
}

func TestJikanUnknownEpisodesStayZero(t *testing.T) {
	media := FromJikan(jikan.Anime{MalID: 3, Title: "Ongoing"})
	if media.EpisodeCount != 0 || media.EpisodesKnown() {
		t.Fatalf("expected unknown episode count, got %d", media.EpisodeCount)
	}
	if media.Status != StatusUnknown {
		t.Fatalf("expected unknown status, got %s", media.Status)
	}
}

func TestParseDuration(t *testing.T) {
	tests := map[string]int{
		"24 min per ep": 24,
		"1 hr 55 min":   1,
		"Unknown":       0,
		"":              0,
	}
	for in, want := range tests {
		if got := ParseDuration(in); got != want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestAdultRating(t *testing.T) {
	if !AdultRating("Rx - Hentai") || !AdultRating("hentai") {
		t.Fatal("expected adult markers detected")
	}
	if AdultRating("R+ - Mild Nudity") || AdultRating("") {
		t.Fatal("expected non-adult ratings")
	}
}

func TestRecordSurvivesJSONRoundTrip(t *testing.T) {
	var d anilist.MediaDetail
	d.ID = 9
	d.Genres = []string{"Drama"}
	var edge anilist.RelationEdge
	edge.RelationType = "SEQUEL"
	edge.Node.ID = 10
	d.Relations.Edges = append(d.Relations.Edges, edge)
	media := FromAniListDetail(d)

	data, err := json.Marshal(media)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Media
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(media, decoded) {
		t.Fatalf("round trip changed record:\n got %+v\nwant %+v", decoded, media)
	}
}

func TestPlainSynopsisAndHasGenre(t *testing.T) {
	media := Media{Synopsis: "A <i>quiet</i> story.<br>", Genres: []string{"Slice of Life"}}
	if got := media.PlainSynopsis(); got != "A quiet story." {
		t.Fatalf("PlainSynopsis = %q", got)
	}
	if !media.HasGenre("slice of life") || media.HasGenre("Action") {
		t.Fatal("unexpected HasGenre result")
	}
}
