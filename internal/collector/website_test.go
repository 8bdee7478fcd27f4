package collector

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/types"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Collector.MaxRetries = 0
	cfg.Collector.RetryDelay = time.Millisecond
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f, err := NewFetcher(cfg, observability.NewMetrics(logger), logger)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return &Deps{Fetcher: f, Config: cfg, Logger: logger}
}

const listingPage = `<html><body>
<nav><a href="/about">About</a><a href="/contact">Contact</a></nav>
<div class="story">
  <h2 class="headline"><a href="/news/markets-rally-after-rate-cut-decision">Markets rally after surprise rate cut decision</a></h2>
  <p class="teaser">Stocks climbed sharply on Monday.</p>
  <span class="byline">Jane Reporter</span>
</div>
<div class="story">
  <h2 class="headline"><a href="/news/new-climate-accord-signed-by-forty-nations">New climate accord signed by forty nations</a></h2>
  <p class="teaser">The agreement covers emissions targets.</p>
  <span class="byline">Sam Writer</span>
</div>
<div class="story">
  <h2 class="headline"><a href="/news/markets-rally-after-rate-cut-decision">Markets rally after surprise rate cut decision</a></h2>
</div>
</body></html>`

func TestWebsiteCollectCSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, listingPage)
	}))
	defer srv.Close()

	src := &types.Source{
		ID:   1,
		Name: "Test Site",
		URL:  srv.URL,
		Type: types.SourceWebsite,
		Scrape: types.ScrapeConfig{
			ArticleSelector: "div.story",
			TitleSelector:   "h2.headline a",
			ContentSelector: "p.teaser",
			AuthorSelector:  "span.byline",
		},
	}

	c := NewWebsiteCollector(testDeps(t))
	articles, err := c.Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	// Third block repeats the first URL and is deduped
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}

	a := articles[0]
	if a.Title != "Markets rally after surprise rate cut decision" {
		t.Errorf("title = %q", a.Title)
	}
	if a.URL != srv.URL+"/news/markets-rally-after-rate-cut-decision" {
		t.Errorf("url = %q", a.URL)
	}
	if a.Content != "Stocks climbed sharply on Monday." {
		t.Errorf("content = %q", a.Content)
	}
	if a.Author != "Jane Reporter" {
		t.Errorf("author = %q", a.Author)
	}
	if a.Status != types.StatusCollected {
		t.Errorf("status = %q", a.Status)
	}
}

func TestWebsiteCollectXPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, listingPage)
	}))
	defer srv.Close()

	src := &types.Source{
		ID:   1,
		Name: "Test Site",
		URL:  srv.URL,
		Type: types.SourceWebsite,
		Scrape: types.ScrapeConfig{
			SelectorType:    types.SelectorXPath,
			ArticleSelector: `//h2[@class="headline"]/a`,
		},
	}

	c := NewWebsiteCollector(testDeps(t))
	articles, err := c.Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[1].Title != "New climate accord signed by forty nations" {
		t.Errorf("title = %q", articles[1].Title)
	}
}

func TestWebsiteCollectHeuristic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, listingPage)
	}))
	defer srv.Close()

	src := &types.Source{
		ID:   1,
		Name: "Test Site",
		URL:  srv.URL,
		Type: types.SourceWebsite,
	}

	c := NewWebsiteCollector(testDeps(t))
	articles, err := c.Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2 (nav links excluded, dupes collapsed)", len(articles))
	}
	for _, a := range articles {
		if len(a.Title) < 10 {
			t.Errorf("implausible title %q", a.Title)
		}
	}
}

func TestWebsiteCollectRespectsMaxArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, listingPage)
	}))
	defer srv.Close()

	src := &types.Source{
		ID:          1,
		Name:        "Test Site",
		URL:         srv.URL,
		Type:        types.SourceWebsite,
		MaxArticles: 1,
		Scrape:      types.ScrapeConfig{ArticleSelector: "div.story", TitleSelector: "h2.headline a"},
	}

	c := NewWebsiteCollector(testDeps(t))
	articles, err := c.Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(articles) != 1 {
		t.Errorf("got %d articles, want 1", len(articles))
	}
}

func TestLooksLikeArticleLink(t *testing.T) {
	tests := []struct {
		href, title string
		want        bool
	}{
		{"https://example.com/news/big-story", "Forty nations sign climate accord", true},
		{"https://example.com/some-long-hyphenated-story-slug", "Forty nations sign climate accord", true},
		{"https://example.com/about", "About", false},
		{"https://example.com/news/big-story", "Short", false},
		{"https://example.com/", "A perfectly reasonable headline here", false},
		{"https://example.com/subscribe", "Subscribe to our newsletter today", false},
	}
	for _, tt := range tests {
		if got := looksLikeArticleLink(tt.href, tt.title); got != tt.want {
			t.Errorf("looksLikeArticleLink(%q, %q) = %v, want %v", tt.href, tt.title, got, tt.want)
		}
	}
}
