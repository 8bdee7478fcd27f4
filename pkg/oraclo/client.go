// Package oraclo provides a Go client for the ORACLO REST API.
//
// Example usage:
//
//	client := oraclo.NewClient("http://localhost:8080")
//
//	articles, _, err := client.Articles(ctx, oraclo.ArticleQuery{
//	    Sentiment: "negative",
//	    PageSize:  10,
//	})
package oraclo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

// Client talks to a running ORACLO API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a client for the API at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// ArticleQuery filters article listings.
type ArticleQuery struct {
	Category  string
	Status    string
	Priority  string
	Sentiment string
	Search    string
	SourceID  int64
	Breaking  bool
	Featured  bool
	OrderBy   string
	Page      int
	PageSize  int
}

func (q ArticleQuery) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("category", q.Category)
	set("status", q.Status)
	set("priority", q.Priority)
	set("sentiment", q.Sentiment)
	set("search", q.Search)
	set("ordering", q.OrderBy)
	if q.SourceID > 0 {
		v.Set("source", strconv.FormatInt(q.SourceID, 10))
	}
	if q.Breaking {
		v.Set("breaking", "true")
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

type articleList struct {
	Count   int              `json:"count"`
	Results []*types.Article `json:"results"`
}

// Articles lists articles matching the query. The second return value
// is the total match count across pages.
func (c *Client) Articles(ctx context.Context, q ArticleQuery) ([]*types.Article, int, error) {
	var list articleList
	if err := c.get(ctx, "/api/articles?"+q.values().Encode(), &list); err != nil {
		return nil, 0, err
	}
	return list.Results, list.Count, nil
}

// Article fetches one article by ID.
func (c *Client) Article(ctx context.Context, id int64) (*types.Article, error) {
	var a types.Article
	if err := c.get(ctx, fmt.Sprintf("/api/articles/%d", id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Breaking lists breaking news from the last windowHours hours.
func (c *Client) Breaking(ctx context.Context, windowHours, limit int) ([]*types.Article, error) {
	var list articleList
	path := fmt.Sprintf("/api/articles/breaking?hours=%d&limit=%d", windowHours, limit)
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// Search runs a full-text search over titles and content.
func (c *Client) Search(ctx context.Context, query string, q ArticleQuery) ([]*types.Article, int, error) {
	v := q.values()
	v.Set("q", query)
	var list articleList
	if err := c.get(ctx, "/api/search?"+v.Encode(), &list); err != nil {
		return nil, 0, err
	}
	return list.Results, list.Count, nil
}

// Trending holds ranked keywords and entities for a time window.
type Trending struct {
	WindowHours int                  `json:"window_hours"`
	Keywords    []store.TrendingTerm `json:"keywords"`
	Entities    []store.TrendingTerm `json:"entities"`
	Articles    []*types.Article     `json:"articles"`
}

// TrendingTerms returns the most frequent keywords and entities.
func (c *Client) TrendingTerms(ctx context.Context, windowHours, limit int) (*Trending, error) {
	var t Trending
	path := fmt.Sprintf("/api/trending?hours=%d&limit=%d", windowHours, limit)
	if err := c.get(ctx, path, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Sources lists configured sources.
func (c *Client) Sources(ctx context.Context, activeOnly bool) ([]*types.Source, error) {
	path := "/api/sources"
	if activeOnly {
		path += "?active=true"
	}
	var list struct {
		Results []*types.Source `json:"results"`
	}
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// CreateSource registers a new source and returns it with its ID set.
func (c *Client) CreateSource(ctx context.Context, src *types.Source) (*types.Source, error) {
	var created types.Source
	if err := c.post(ctx, "/api/sources", src, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CollectNow triggers an immediate collection of the source.
func (c *Client) CollectNow(ctx context.Context, sourceID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/sources/%d/collect", sourceID), nil, nil)
}

// AnalyzeSentiment scores arbitrary text.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (*types.SentimentResult, error) {
	var res types.SentimentResult
	if err := c.post(ctx, "/api/sentiment-analysis", map[string]string{"text": text}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Stats returns the platform summary shown on the dashboard.
func (c *Client) Stats(ctx context.Context) (*store.Stats, error) {
	var resp struct {
		Stats *store.Stats `json:"stats"`
	}
	if err := c.get(ctx, "/api/stats", &resp); err != nil {
		return nil, err
	}
	return resp.Stats, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
