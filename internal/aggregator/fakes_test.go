package aggregator

import (
	"context"
	"sync"

	"animeta/internal/anilist"
	"animeta/internal/jikan"
	"animeta/internal/services"
)

type fakePrimary struct {
	mu sync.Mutex

	total       int
	totalErr    error
	search      func(anilist.SearchParams) ([]anilist.Media, error)
	feed        []anilist.Media
	feedErr     error
	details     map[int]anilist.MediaDetail
	detailErr   error
	searchCalls []anilist.SearchParams
	detailCalls int
	feedCalls   int
	totalCalls  int
}

func (f *fakePrimary) TotalCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalCalls++
	return f.total, f.totalErr
}

func (f *fakePrimary) Search(_ context.Context, params anilist.SearchParams) ([]anilist.Media, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, params)
	search := f.search
	f.mu.Unlock()
	if search == nil {
		return nil, services.Wrap(services.ErrEmptyResult, "anilist", "search", "no media", nil)
	}
	return search(params)
}

func (f *fakePrimary) feedResult() ([]anilist.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedCalls++
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	if len(f.feed) == 0 {
		return nil, services.Wrap(services.ErrEmptyResult, "anilist", "feed", "no media", nil)
	}
	return f.feed, nil
}

func (f *fakePrimary) Trending(context.Context, int, int) ([]anilist.Media, error) {
	return f.feedResult()
}

func (f *fakePrimary) Seasonal(context.Context, int, int) ([]anilist.Media, error) {
	return f.feedResult()
}

func (f *fakePrimary) Top(context.Context, int, int) ([]anilist.Media, error) {
	return f.feedResult()
}

func (f *fakePrimary) Detail(_ context.Context, id int) (anilist.MediaDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if f.detailErr != nil {
		return anilist.MediaDetail{}, f.detailErr
	}
	detail, ok := f.details[id]
	if !ok {
		return anilist.MediaDetail{}, services.Wrap(services.ErrEmptyResult, "anilist", "detail", "media not found", nil)
	}
	return detail, nil
}

func (f *fakePrimary) searches() []anilist.SearchParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]anilist.SearchParams(nil), f.searchCalls...)
}

type fakeSecondary struct {
	mu sync.Mutex

	total        int
	totalErr     error
	list         []jikan.Anime
	listErr      error
	byTitle      map[string]jikan.Anime
	episodes     map[int]int
	episodesErr  error
	searchCalls  []jikan.SearchParams
	listCalls    int
	titleCalls   int
	episodeCalls int
	totalCalls   int
}

func (f *fakeSecondary) TotalCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalCalls++
	return f.total, f.totalErr
}

func (f *fakeSecondary) listResult() ([]jikan.Anime, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.list) == 0 {
		return nil, services.Wrap(services.ErrEmptyResult, "jikan", "list", "no data", nil)
	}
	return f.list, nil
}

func (f *fakeSecondary) Search(_ context.Context, params jikan.SearchParams) ([]jikan.Anime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, params)
	return f.listResult()
}

func (f *fakeSecondary) Airing(context.Context, int, int) ([]jikan.Anime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listResult()
}

func (f *fakeSecondary) SeasonNow(context.Context, int, int) ([]jikan.Anime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listResult()
}

func (f *fakeSecondary) Top(context.Context, int, int) ([]jikan.Anime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listResult()
}

func (f *fakeSecondary) FindByTitle(_ context.Context, title string) (jikan.Anime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls++
	anime, ok := f.byTitle[title]
	if !ok {
		return jikan.Anime{}, services.Wrap(services.ErrEmptyResult, "jikan", "find_by_title", "no data", nil)
	}
	return anime, nil
}

func (f *fakeSecondary) Episodes(_ context.Context, id int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.episodeCalls++
	if f.episodesErr != nil {
		return 0, false, f.episodesErr
	}
	count, ok := f.episodes[id]
	return count, ok && count > 0, nil
}

func transportErr(component string) error {
	return services.Wrap(services.ErrTransport, component, "request", "status 503", nil)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
