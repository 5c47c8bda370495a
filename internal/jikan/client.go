package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"animeta/internal/genres"
	"animeta/internal/services"
	"animeta/internal/textutil"
)

const component = "jikan"

// SearchParams describes a search request in caller vocabulary: Genre is a
// genre name and Sort one of "title", "rating", "newest".
type SearchParams struct {
	Query string
	Genre string
	Sort  string
	Page  int
	Limit int
}

// Client provides access to the REST catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRequestsPerSecond paces outgoing requests. Zero disables pacing.
func WithRequestsPerSecond(n float64) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(n), 1)
	}
}

// New creates a client rooted at baseURL (e.g. https://api.jikan.moe/v4).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("jikan base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// OrderFor maps a sort mode to the order_by and sort query parameters.
// Unknown modes leave ordering to the catalog.
func OrderFor(mode string) (orderBy, direction string) {
	switch mode {
	case "rating":
		return "score", "desc"
	case "newest":
		return "start_date", "desc"
	case "title":
		return "title", "asc"
	default:
		return "", ""
	}
}

// SearchValues builds the query string for a search. A genre that resolves
// through the genre index is sent as a numeric id; otherwise it is appended
// to the free text. Adult genres and free text mentioning hentai add the
// rx content rating.
func SearchValues(params SearchParams) url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(max(1, params.Limit)))
	values.Set("page", strconv.Itoa(max(1, params.Page)))
	if orderBy, direction := OrderFor(params.Sort); orderBy != "" {
		values.Set("order_by", orderBy)
		values.Set("sort", direction)
	}

	query := strings.TrimSpace(params.Query)
	genre := strings.TrimSpace(params.Genre)
	if genres.IsUnset(genre) {
		genre = ""
	}
	adult := genre != "" && genres.IsAdult(genre)

	if id, ok := genres.ToProviderID(genre); ok {
		values.Set("genres", strconv.Itoa(id))
	} else if genre != "" {
		query = strings.TrimSpace(query + " " + genre)
	}
	if strings.Contains(textutil.Fold(query), "hentai") {
		adult = true
	}
	if query != "" {
		values.Set("q", query)
	}
	if adult {
		values.Set("rating", "rx")
	}
	return values
}

// Search runs a paginated /anime search.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Anime, error) {
	resp, err := c.list(ctx, "search", "/anime", SearchValues(params))
	if err != nil {
		return nil, err
	}
	return nonEmpty("search", resp.Data)
}

// Airing returns the top list filtered to currently airing entries.
func (c *Client) Airing(ctx context.Context, page, limit int) ([]Anime, error) {
	values := pageValues(page, limit)
	values.Set("filter", "airing")
	resp, err := c.list(ctx, "airing", "/top/anime", values)
	if err != nil {
		return nil, err
	}
	return nonEmpty("airing", resp.Data)
}

// SeasonNow returns entries airing this season.
func (c *Client) SeasonNow(ctx context.Context, page, limit int) ([]Anime, error) {
	resp, err := c.list(ctx, "season_now", "/seasons/now", pageValues(page, limit))
	if err != nil {
		return nil, err
	}
	return nonEmpty("season_now", resp.Data)
}

// Top returns the overall top-rated list.
func (c *Client) Top(ctx context.Context, page, limit int) ([]Anime, error) {
	resp, err := c.list(ctx, "top", "/top/anime", pageValues(page, limit))
	if err != nil {
		return nil, err
	}
	return nonEmpty("top", resp.Data)
}

// FindByTitle returns the best free-text match for title.
func (c *Client) FindByTitle(ctx context.Context, title string) (Anime, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Anime{}, services.Wrap(services.ErrValidation, component, "find_by_title", "title must not be empty", nil)
	}
	values := url.Values{}
	values.Set("q", title)
	values.Set("limit", "1")
	resp, err := c.list(ctx, "find_by_title", "/anime", values)
	if err != nil {
		return Anime{}, err
	}
	data, err := nonEmpty("find_by_title", resp.Data)
	if err != nil {
		return Anime{}, err
	}
	return data[0], nil
}

// Episodes returns the episode count of one entry. ok is false when the
// catalog does not know the count.
func (c *Client) Episodes(ctx context.Context, id int) (count int, ok bool, err error) {
	if id <= 0 {
		return 0, false, services.Wrap(services.ErrValidation, component, "episodes", "id must be positive", nil)
	}
	var payload itemResponse
	if err := c.get(ctx, "episodes", fmt.Sprintf("/anime/%d", id), nil, &payload); err != nil {
		return 0, false, err
	}
	if payload.Data == nil || payload.Data.Episodes == nil || *payload.Data.Episodes <= 0 {
		return 0, false, nil
	}
	return *payload.Data.Episodes, true, nil
}

// TotalCount probes /anime with a single-item page and reports the total.
func (c *Client) TotalCount(ctx context.Context) (int, error) {
	values := url.Values{}
	values.Set("limit", "1")
	resp, err := c.list(ctx, "total_count", "/anime", values)
	if err != nil {
		return 0, err
	}
	if resp.Pagination.Items.Total <= 0 {
		return 0, services.Wrap(services.ErrEmptyResult, component, "total_count", "pagination reported no total", nil)
	}
	return resp.Pagination.Items.Total, nil
}

func (c *Client) list(ctx context.Context, operation, path string, values url.Values) (*ListResponse, error) {
	var payload ListResponse
	if err := c.get(ctx, operation, path, values, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, operation, path string, values url.Values, dest any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, operation, "parse url", err)
	}
	if len(values) > 0 {
		endpoint.RawQuery = values.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return services.Wrap(services.ErrTransport, component, operation, "pacing wait", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrTransport, component, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransport, component, operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrTransport, component, operation, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return services.Wrap(services.ErrDecode, component, operation, "decode response", err)
	}
	return nil
}

func pageValues(page, limit int) url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(max(1, limit)))
	values.Set("page", strconv.Itoa(max(1, page)))
	return values
}

func nonEmpty(operation string, data []Anime) ([]Anime, error) {
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrEmptyResult, component, operation, "no entries returned", nil)
	}
	return data, nil
}
