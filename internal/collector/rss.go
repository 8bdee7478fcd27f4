package collector

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/oraclo-news/oraclo/internal/types"
)

// RSSCollector pulls articles from RSS and Atom feeds.
type RSSCollector struct {
	fetcher *Fetcher
	logger  *slog.Logger
	parser  *gofeed.Parser
}

// NewRSSCollector builds an RSS collector.
func NewRSSCollector(deps *Deps) *RSSCollector {
	return &RSSCollector{
		fetcher: deps.Fetcher,
		logger:  deps.Logger.With("component", "rss_collector"),
		parser:  gofeed.NewParser(),
	}
}

// Collect fetches and parses the source feed. The feed URL defaults to
// the source URL when no explicit feed_url is configured.
func (c *RSSCollector) Collect(ctx context.Context, src *types.Source) ([]*types.Article, error) {
	feedURL := src.Scrape.FeedURL
	if feedURL == "" {
		feedURL = src.URL
	}

	body, err := c.fetcher.FetchWithRetry(ctx, feedURL, nil)
	if err != nil {
		return nil, &types.CollectError{SourceName: src.Name, SourceType: src.Type, Err: err}
	}

	feed, err := c.parser.ParseString(string(body))
	if err != nil {
		return nil, &types.CollectError{SourceName: src.Name, SourceType: src.Type, Err: err}
	}

	max := src.MaxArticles
	if max <= 0 || max > len(feed.Items) {
		max = len(feed.Items)
	}

	var articles []*types.Article
	for _, item := range feed.Items[:max] {
		title := cleanText(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		a := types.NewArticle(title, cleanText(content), link, src.ID)
		a.Summary = truncate(cleanText(item.Description), 500)
		if item.PublishedParsed != nil {
			a.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			a.PublishedAt = item.UpdatedParsed
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			a.Author = item.Authors[0].Name
		}
		articles = append(articles, a)
	}

	c.logger.Debug("feed collected",
		"source", src.Name,
		"feed_items", len(feed.Items),
		"articles", len(articles),
	)
	return articles, nil
}
