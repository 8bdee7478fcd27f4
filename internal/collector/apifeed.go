package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oraclo-news/oraclo/internal/types"
)

// APICollector pulls articles from JSON news APIs. It understands the
// common response shapes: a bare array, or an object wrapping the list
// under "articles", "items", "results", or "data".
type APICollector struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewAPICollector builds an API collector.
func NewAPICollector(deps *Deps) *APICollector {
	return &APICollector{
		fetcher: deps.Fetcher,
		logger:  deps.Logger.With("component", "api_collector"),
	}
}

// apiItem maps the field aliases different news APIs use.
type apiItem struct {
	Title       string `json:"title"`
	Headline    string `json:"headline"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	WebURL      string `json:"web_url"`
	Content     string `json:"content"`
	Body        string `json:"body"`
	Text        string `json:"text"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Author      string `json:"author"`
	Byline      string `json:"byline"`
	PublishedAt string `json:"published_at"`
	PubDate     string `json:"pubDate"`
	Date        string `json:"date"`
}

func (it *apiItem) title() string {
	return firstNonEmpty(it.Title, it.Headline, it.Name)
}

func (it *apiItem) link() string {
	return firstNonEmpty(it.URL, it.Link, it.WebURL)
}

func (it *apiItem) body() string {
	return firstNonEmpty(it.Content, it.Body, it.Text, it.Description)
}

func (it *apiItem) published() string {
	return firstNonEmpty(it.PublishedAt, it.PubDate, it.Date)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Collect fetches the API endpoint and converts items to articles.
func (c *APICollector) Collect(ctx context.Context, src *types.Source) ([]*types.Article, error) {
	endpoint := src.Scrape.APIEndpoint
	if endpoint == "" {
		endpoint = src.URL
	}

	headers := map[string]string{"Accept": "application/json"}
	if src.Scrape.APIKey != "" {
		headers["Authorization"] = "Bearer " + src.Scrape.APIKey
		headers["X-Api-Key"] = src.Scrape.APIKey
	}

	body, err := c.fetcher.FetchWithRetry(ctx, endpoint, headers)
	if err != nil {
		return nil, &types.CollectError{SourceName: src.Name, SourceType: src.Type, Err: err}
	}

	items, err := decodeItems(body)
	if err != nil {
		return nil, &types.CollectError{SourceName: src.Name, SourceType: src.Type, Err: err}
	}

	max := src.MaxArticles
	if max <= 0 || max > len(items) {
		max = len(items)
	}

	var articles []*types.Article
	for _, it := range items[:max] {
		title := cleanText(it.title())
		link := strings.TrimSpace(it.link())
		if title == "" || link == "" {
			continue
		}
		a := types.NewArticle(title, cleanText(it.body()), link, src.ID)
		a.Summary = truncate(cleanText(firstNonEmpty(it.Summary, it.Description)), 500)
		a.Author = cleanText(firstNonEmpty(it.Author, it.Byline))
		a.PublishedAt = parseDate(it.published(), src.Scrape.DateFormat)
		articles = append(articles, a)
	}

	c.logger.Debug("api collected", "source", src.Name, "items", len(items), "articles", len(articles))
	return articles, nil
}

// decodeItems accepts either a bare JSON array or an object with the
// list under a well-known key.
func decodeItems(body []byte) ([]apiItem, error) {
	var direct []apiItem
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized API response: %w", err)
	}
	for _, key := range []string{"articles", "items", "results", "data"} {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		var items []apiItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %q list: %w", key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("no article list found in API response")
}
