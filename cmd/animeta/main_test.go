package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"animeta/internal/catalog"
)

const bebopMedia = `{
	"id": 1, "idMal": 1,
	"title": {"romaji": "Cowboy Bebop", "english": "Cowboy Bebop", "native": "カウボーイビバップ"},
	"coverImage": {"extraLarge": "https://img/xl.jpg", "large": "https://img/l.jpg"},
	"bannerImage": null,
	"description": "Space <i>bounty</i> hunters.<br>In 2071.",
	"episodes": 26, "meanScore": 86, "format": "TV", "status": "FINISHED",
	"season": "SPRING", "seasonYear": 1998, "genres": ["Action", "Sci-Fi"],
	"duration": 24, "studios": {"nodes": [{"name": "Sunrise"}]}, "isAdult": false
}`

type providerStubs struct {
	anilist      *httptest.Server
	jikan        *httptest.Server
	primaryDown  atomic.Bool
	primaryCalls atomic.Int32
}

func newProviderStubs(t *testing.T) *providerStubs {
	t.Helper()
	stubs := &providerStubs{}

	stubs.anilist = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stubs.primaryCalls.Add(1)
		if stubs.primaryDown.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode graphql request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Query, "pageInfo"):
			fmt.Fprint(w, `{"data":{"Page":{"pageInfo":{"total":20123},"media":[{"id":1}]}}}`)
		case strings.Contains(req.Query, "Media(id:"):
			detail := strings.TrimSuffix(strings.TrimSpace(bebopMedia), "}") +
				`, "trailer": null, "relations": {"edges": []}, "recommendations": {"nodes": []}}`
			fmt.Fprintf(w, `{"data":{"Media":%s}}`, detail)
		default:
			fmt.Fprintf(w, `{"data":{"Page":{"media":[%s]}}}`, bebopMedia)
		}
	}))
	t.Cleanup(stubs.anilist.Close)

	stubs.jikan = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v4/anime/20":
			fmt.Fprint(w, `{"data":{"mal_id":20,"title":"Naruto","episodes":220}}`)
		case "/v4/anime/99":
			fmt.Fprint(w, `{"data":{"mal_id":99,"title":"Ongoing","episodes":null}}`)
		default:
			fmt.Fprint(w, `{"data":[{"mal_id":20,"title":"Naruto","episodes":220,"score":8.0,"status":"Finished Airing","type":"TV","genres":[{"mal_id":1,"name":"Action"}]}],"pagination":{"items":{"count":1,"total":27000,"per_page":1}}}`)
		}
	}))
	t.Cleanup(stubs.jikan.Close)

	return stubs
}

func writeTestConfig(t *testing.T, stubs *providerStubs) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[anilist]
endpoint = %q
requests_per_minute = 0

[jikan]
base_url = %q
requests_per_second = 0

[cache]
enabled = true
backend = "sqlite"
path = %q

[logging]
format = "json"
level = "error"
`, stubs.anilist.URL, stubs.jikan.URL+"/v4", filepath.Join(dir, "cache", "cache.db"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestGenresCommandNeedsNoConfig(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing", "config.toml"), "genres")
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	requireContains(t, out, "Action")
	requireContains(t, out, "Slice of Life")
}

func TestSearchCommandRendersTable(t *testing.T) {
	stubs := newProviderStubs(t)
	cfgPath := writeTestConfig(t, stubs)

	out, err := runCLI(t, "--config", cfgPath, "search", "cowboy", "bebop", "--sort", "rating")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Cowboy Bebop")
	requireContains(t, out, "anilist")
}

func TestSearchCommandFallsBackAsJSON(t *testing.T) {
	stubs := newProviderStubs(t)
	stubs.primaryDown.Store(true)
	cfgPath := writeTestConfig(t, stubs)

	out, err := runCLI(t, "--config", cfgPath, "--json", "search", "naruto")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var media []catalog.Media
	if err := json.Unmarshal([]byte(out), &media); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(media) != 1 || media[0].Provenance != catalog.ProvenanceJikan || media[0].Score != 80 {
		t.Fatalf("unexpected fallback output %+v", media)
	}
}

func TestSearchCommandServesRepeatFromCache(t *testing.T) {
	stubs := newProviderStubs(t)
	cfgPath := writeTestConfig(t, stubs)

	for i := 0; i < 2; i++ {
		if _, err := runCLI(t, "--config", cfgPath, "search", "--genre", "Action"); err != nil {
			t.Fatalf("search: %v", err)
		}
	}
	if stubs.primaryCalls.Load() != 1 {
		t.Fatalf("expected second run served from the sqlite cache, primary called %d times", stubs.primaryCalls.Load())
	}
}

func TestDetailCommand(t *testing.T) {
	stubs := newProviderStubs(t)
	cfgPath := writeTestConfig(t, stubs)

	out, err := runCLI(t, "--config", cfgPath, "--memory-cache", "detail", "Cowboy", "Bebop")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	requireContains(t, out, "Cowboy Bebop")
	requireContains(t, out, "Episodes: 26")
	requireContains(t, out, "Season:   Spring 1998")
	requireContains(t, out, "Space bounty hunters.\nIn 2071.")
}

func TestCountCommand(t *testing.T) {
	stubs := newProviderStubs(t)
	cfgPath := writeTestConfig(t, stubs)

	out, err := runCLI(t, "--config", cfgPath, "--memory-cache", "count")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	requireContains(t, out, "20k titles (20123)")

	stubs.primaryDown.Store(true)
	out, err = runCLI(t, "--config", cfgPath, "--memory-cache", "count", "--refresh")
	if err != nil {
		t.Fatalf("count --refresh: %v", err)
	}
	requireContains(t, out, "27k titles (27000)")
}

func TestEpisodesCommand(t *testing.T) {
	stubs := newProviderStubs(t)
	cfgPath := writeTestConfig(t, stubs)

	out, err := runCLI(t, "--config", cfgPath, "--memory-cache", "episodes", "20")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	requireContains(t, out, "220 episodes")

	out, err = runCLI(t, "--config", cfgPath, "--memory-cache", "episodes", "99")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	requireContains(t, out, "unknown")

	if _, err := runCLI(t, "--config", cfgPath, "episodes", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestDiscoverCommandJSON(t *testing.T) {
	stubs := newProviderStubs(t)
	cfgPath := writeTestConfig(t, stubs)

	out, err := runCLI(t, "--config", cfgPath, "--memory-cache", "--json", "discover")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	var result discoverResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if result.Total != 20123 || len(result.Trending) != 1 || len(result.Seasonal) != 1 || len(result.TopRated) != 1 {
		t.Fatalf("unexpected discover result %+v", result)
	}
}

func TestCacheCommands(t *testing.T) {
	stubs := newProviderStubs(t)
	cfgPath := writeTestConfig(t, stubs)

	if _, err := runCLI(t, "--config", cfgPath, "trending"); err != nil {
		t.Fatalf("trending: %v", err)
	}
	out, err := runCLI(t, "--config", cfgPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Backend: sqlite")
	requireContains(t, out, "Entries: 1")

	out, err = runCLI(t, "--config", cfgPath, "cache", "prune")
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "No cache entries pruned")

	out, err = runCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cache cleared")

	out, err = runCLI(t, "--config", cfgPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries: 0")
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "animeta", "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "AniList: https://graphql.anilist.co (90 req/min)")
	requireContains(t, out, "Jikan: https://api.jikan.moe/v4 (3 req/s)")
	requireContains(t, out, "config validate")

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatalf("expected error when config already exists")
	}

	stubs := newProviderStubs(t)
	out, err = runCLI(t, "--config", writeTestConfig(t, stubs), "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Cache: sqlite")
}
