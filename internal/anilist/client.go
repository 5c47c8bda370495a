package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shurcooL/graphql"
	"golang.org/x/time/rate"

	"animeta/internal/services"
)

const component = "anilist"

// SearchParams describes a paginated search. Empty Query and Genre are sent
// as null.
type SearchParams struct {
	Query   string
	Genre   string
	Sort    MediaSort
	Page    int
	PerPage int
}

// Client issues the fixed query documents against one GraphQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	gql        *graphql.Client
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

// WithRequestsPerMinute paces outgoing requests. Zero disables pacing.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), max(1, n/30))
	}
}

// New creates a client for the GraphQL endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("anilist endpoint required")
	}
	client := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.gql = graphql.NewClient(endpoint, client.httpClient)
	return client, nil
}

// TotalCount returns the number of catalog entries reported by page info.
func (c *Client) TotalCount(ctx context.Context) (int, error) {
	var q totalCountQuery
	if err := c.query(ctx, "total_count", &q, nil); err != nil {
		return 0, err
	}
	if q.Page.PageInfo.Total <= 0 {
		return 0, services.Wrap(services.ErrEmptyResult, component, "total_count", "page info reported no total", nil)
	}
	return q.Page.PageInfo.Total, nil
}

// Search runs the paginated search query.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Media, error) {
	sort := params.Sort
	if sort == "" {
		sort = SortSearchMatch
	}
	vars := map[string]any{
		"search":  nullableString(params.Query),
		"genre":   nullableString(params.Genre),
		"sort":    []MediaSort{sort},
		"page":    graphql.Int(max(1, params.Page)),
		"perPage": graphql.Int(max(1, params.PerPage)),
	}
	var q searchQuery
	if err := c.query(ctx, "search", &q, vars); err != nil {
		return nil, err
	}
	return nonEmpty("search", q.Page.Media)
}

// Trending returns the trending feed page.
func (c *Client) Trending(ctx context.Context, page, perPage int) ([]Media, error) {
	var q trendingQuery
	if err := c.query(ctx, "trending", &q, pageVars(page, perPage)); err != nil {
		return nil, err
	}
	return nonEmpty("trending", q.Page.Media)
}

// Seasonal returns currently releasing entries ordered by popularity.
func (c *Client) Seasonal(ctx context.Context, page, perPage int) ([]Media, error) {
	var q seasonalQuery
	if err := c.query(ctx, "seasonal", &q, pageVars(page, perPage)); err != nil {
		return nil, err
	}
	return nonEmpty("seasonal", q.Page.Media)
}

// Top returns entries ordered by descending score.
func (c *Client) Top(ctx context.Context, page, perPage int) ([]Media, error) {
	var q topQuery
	if err := c.query(ctx, "top", &q, pageVars(page, perPage)); err != nil {
		return nil, err
	}
	return nonEmpty("top", q.Page.Media)
}

// Detail fetches one entry by id including relations and recommendations.
func (c *Client) Detail(ctx context.Context, id int) (MediaDetail, error) {
	if id <= 0 {
		return MediaDetail{}, services.Wrap(services.ErrValidation, component, "detail", "id must be positive", nil)
	}
	var q detailQuery
	if err := c.query(ctx, "detail", &q, map[string]any{"id": graphql.Int(id)}); err != nil {
		return MediaDetail{}, err
	}
	if q.Media.ID == 0 {
		return MediaDetail{}, services.Wrap(services.ErrEmptyResult, component, "detail", fmt.Sprintf("id %d not found", id), nil)
	}
	return q.Media, nil
}

func (c *Client) query(ctx context.Context, operation string, q any, vars map[string]any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return services.Wrap(services.ErrTransport, component, operation, "pacing wait", err)
		}
	}
	requestStart := time.Now()
	err := c.gql.Query(ctx, q, vars)
	latency := time.Since(requestStart)
	if err == nil {
		return nil
	}
	marker := services.ErrTransport
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		marker = services.ErrDecode
	}
	return services.Wrap(marker, component, operation, fmt.Sprintf("latency=%v", latency), err)
}

func pageVars(page, perPage int) map[string]any {
	return map[string]any{
		"page":    graphql.Int(max(1, page)),
		"perPage": graphql.Int(max(1, perPage)),
	}
}

func nullableString(value string) *graphql.String {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return graphql.NewString(graphql.String(value))
}

func nonEmpty(operation string, media []Media) ([]Media, error) {
	if len(media) == 0 {
		return nil, services.Wrap(services.ErrEmptyResult, component, operation, "no media returned", nil)
	}
	return media, nil
}
