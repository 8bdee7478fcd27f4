// Package collector gathers articles from configured news sources:
// scraped websites, RSS/Atom feeds, and JSON APIs.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/types"
)

// Collector extracts articles from one source. Implementations exist
// per source type: website scraping, RSS feeds, and JSON APIs.
type Collector interface {
	Collect(ctx context.Context, src *types.Source) ([]*types.Article, error)
}

// Deps bundles what collectors need to do their work.
type Deps struct {
	Fetcher *Fetcher
	Browser *BrowserFetcher // nil unless browser rendering is enabled
	Config  *config.Config
	Logger  *slog.Logger
}

// For returns the collector matching the source type.
func For(src *types.Source, deps *Deps) (Collector, error) {
	switch src.Type {
	case types.SourceWebsite:
		return NewWebsiteCollector(deps), nil
	case types.SourceRSS:
		return NewRSSCollector(deps), nil
	case types.SourceAPI:
		return NewAPICollector(deps), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}

// cleanText collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts a string to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02/01/2006",
}

// parseDate tries the source's configured layout first, then a set of
// common layouts. Returns nil when nothing matches.
func parseDate(s, preferredLayout string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := dateLayouts
	if preferredLayout != "" {
		layouts = append([]string{preferredLayout}, dateLayouts...)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// absoluteURL resolves href against the source base URL.
func absoluteURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// Words that mark navigation links rather than article headlines.
var navWords = []string{
	"home", "about", "contact", "login", "register", "subscribe",
	"privacy", "terms", "advertise", "sitemap", "newsletter", "search",
	"menu", "more", "next", "previous", "read more", "sign in", "sign up",
}

// Path segments that suggest a URL points at an article.
var articlePathHints = []string{
	"/article", "/story", "/news/", "/post", "/20", "/politics",
	"/world", "/business", "/tech", "/sport", "/science", "/health",
}

// looksLikeArticleLink applies cheap heuristics to decide whether an
// anchor is a headline link: a plausible title length, no navigation
// words, and an article-shaped path.
func looksLikeArticleLink(href, title string) bool {
	title = cleanText(title)
	if len(title) < 10 || len(title) > 200 {
		return false
	}
	lower := strings.ToLower(title)
	for _, w := range navWords {
		if lower == w || strings.HasPrefix(lower, w+" ") {
			return false
		}
	}

	u, err := url.Parse(href)
	if err != nil || u.Path == "" || u.Path == "/" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, hint := range articlePathHints {
		if strings.Contains(path, hint) {
			return true
		}
	}
	// Long hyphenated slugs are almost always articles
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Count(last, "-") >= 3
}
