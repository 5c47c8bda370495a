package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"animeta/internal/aggregator"
	"animeta/internal/catalog"
	"animeta/internal/services"
)

type stubCatalog struct {
	total     int
	refreshed bool
	queries   []aggregator.SearchQuery
	feedArgs  [][2]int
	details   map[string]catalog.Media
	episodes  map[int]int
	requestID string
}

func (s *stubCatalog) TotalCount(context.Context) int { return s.total }

func (s *stubCatalog) RefreshTotalCount(context.Context) int {
	s.refreshed = true
	return s.total + 1
}

func (s *stubCatalog) Search(ctx context.Context, query aggregator.SearchQuery) []catalog.Media {
	s.queries = append(s.queries, query)
	s.requestID, _ = services.RequestIDFromContext(ctx)
	return []catalog.Media{{ID: 1, Title: "Cowboy Bebop", Genres: []string{}, Studios: []string{}}}
}

func (s *stubCatalog) feed(_ context.Context, page, perPage int) []catalog.Media {
	s.feedArgs = append(s.feedArgs, [2]int{page, perPage})
	return []catalog.Media{}
}

func (s *stubCatalog) Trending(ctx context.Context, page, perPage int) []catalog.Media {
	return s.feed(ctx, page, perPage)
}

func (s *stubCatalog) Seasonal(ctx context.Context, page, perPage int) []catalog.Media {
	return s.feed(ctx, page, perPage)
}

func (s *stubCatalog) TopRated(ctx context.Context, page, perPage int) []catalog.Media {
	return s.feed(ctx, page, perPage)
}

func (s *stubCatalog) DetailByTitle(_ context.Context, title string) (catalog.Media, bool) {
	media, ok := s.details[title]
	return media, ok
}

func (s *stubCatalog) EpisodeCount(_ context.Context, id int) (int, bool) {
	count, ok := s.episodes[id]
	return count, ok
}

func serve(t *testing.T, cat Catalog, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New("127.0.0.1:0", cat, nil)
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var payload T
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return payload
}

func TestCountEndpoint(t *testing.T) {
	cat := &stubCatalog{total: 18000}
	rec := serve(t, cat, http.MethodGet, "/api/count")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode[CountResponse](t, rec)
	if resp.Total != 18000 || resp.Display != "18k" {
		t.Fatalf("unexpected payload %+v", resp)
	}
	if cat.refreshed {
		t.Fatalf("refresh should not run without the flag")
	}

	rec = serve(t, cat, http.MethodGet, "/api/count?refresh=true")
	if resp := decode[CountResponse](t, rec); resp.Total != 18001 || !cat.refreshed {
		t.Fatalf("expected refreshed count, got %+v", resp)
	}
}

func TestSearchEndpointPassesQuery(t *testing.T) {
	cat := &stubCatalog{}
	rec := serve(t, cat, http.MethodGet, "/api/search?q=bebop&genre=All&sort=Rating&page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" || cat.requestID != rec.Header().Get(requestIDHeader) {
		t.Fatalf("request id not propagated: header=%q ctx=%q", rec.Header().Get(requestIDHeader), cat.requestID)
	}
	want := aggregator.SearchQuery{Text: "bebop", Genre: "All", Sort: aggregator.SortRating, Page: 2}
	if len(cat.queries) != 1 || cat.queries[0] != want {
		t.Fatalf("unexpected queries %+v", cat.queries)
	}
	resp := decode[ListResponse](t, rec)
	if len(resp.Items) != 1 || resp.Page != 2 {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestSearchEndpointRejectsBadPage(t *testing.T) {
	rec := serve(t, &stubCatalog{}, http.MethodGet, "/api/search?q=x&page=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFeedEndpointsApplyDefaults(t *testing.T) {
	tests := []struct {
		path    string
		perPage int
	}{
		{"/api/trending", aggregator.DefaultFeedPerPage},
		{"/api/seasonal", aggregator.DefaultFeedPerPage},
		{"/api/top", aggregator.DefaultTopPerPage},
	}
	for _, tt := range tests {
		cat := &stubCatalog{}
		rec := serve(t, cat, http.MethodGet, tt.path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.path, rec.Code)
		}
		if len(cat.feedArgs) != 1 || cat.feedArgs[0] != [2]int{1, tt.perPage} {
			t.Fatalf("%s: unexpected args %v", tt.path, cat.feedArgs)
		}
		if resp := decode[ListResponse](t, rec); resp.Items == nil {
			t.Fatalf("%s: expected empty array, got null", tt.path)
		}
	}

	if rec := serve(t, &stubCatalog{}, http.MethodGet, "/api/top?per_page=500"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized page, got %d", rec.Code)
	}
}

func TestDetailEndpoint(t *testing.T) {
	cat := &stubCatalog{details: map[string]catalog.Media{
		"Monster": {ID: 19, Title: "Monster", Provenance: catalog.ProvenanceJikan, Genres: []string{}, Studios: []string{}},
	}}
	rec := serve(t, cat, http.MethodGet, "/api/detail?title=Monster")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decode[DetailResponse](t, rec); resp.Item.ID != 19 {
		t.Fatalf("unexpected payload %+v", resp)
	}
	if rec := serve(t, cat, http.MethodGet, "/api/detail?title=Unknown"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(t, cat, http.MethodGet, "/api/detail"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEpisodesEndpoint(t *testing.T) {
	cat := &stubCatalog{episodes: map[int]int{1: 26}}
	rec := serve(t, cat, http.MethodGet, "/api/episodes/1")
	resp := decode[EpisodesResponse](t, rec)
	if resp.ID != 1 || resp.Episodes != 26 || !resp.Known {
		t.Fatalf("unexpected payload %+v", resp)
	}
	resp = decode[EpisodesResponse](t, serve(t, cat, http.MethodGet, "/api/episodes/2"))
	if resp.Known {
		t.Fatalf("expected unknown count, got %+v", resp)
	}
	if rec := serve(t, cat, http.MethodGet, "/api/episodes/abc"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-numeric id, got %d", rec.Code)
	}
}

func TestGenresEndpoint(t *testing.T) {
	resp := decode[GenresResponse](t, serve(t, &stubCatalog{}, http.MethodGet, "/api/genres"))
	if len(resp.Genres) != 23 {
		t.Fatalf("expected 23 genres, got %d", len(resp.Genres))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := serve(t, &stubCatalog{}, http.MethodPost, "/api/count")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestStartServesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := New("127.0.0.1:0", &stubCatalog{total: 5}, nil)
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := http.Get("http://" + srv.Addr() + "/api/count")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestStartRequiresBind(t *testing.T) {
	srv := New(" ", &stubCatalog{}, nil)
	if err := srv.Start(context.Background()); err == nil {
		t.Fatalf("expected error for empty bind")
	}
}
