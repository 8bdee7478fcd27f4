package types

import "time"

// SourceType identifies how a source is collected.
type SourceType string

const (
	SourceWebsite SourceType = "website"
	SourceRSS     SourceType = "rss"
	SourceAPI     SourceType = "api"
)

// SelectorType identifies the selector language in a ScrapeConfig.
type SelectorType string

const (
	SelectorCSS   SelectorType = "css"
	SelectorXPath SelectorType = "xpath"
)

// ScrapeConfig holds per-source extraction settings.
// Empty selectors fall back to heuristic extraction.
type ScrapeConfig struct {
	SelectorType     SelectorType  `json:"selector_type,omitempty"`
	ArticleSelector  string        `json:"article_selector,omitempty"`
	TitleSelector    string        `json:"title_selector,omitempty"`
	ContentSelector  string        `json:"content_selector,omitempty"`
	AuthorSelector   string        `json:"author_selector,omitempty"`
	DateSelector     string        `json:"date_selector,omitempty"`
	DateFormat       string        `json:"date_format,omitempty"`
	FeedURL          string        `json:"feed_url,omitempty"`
	APIEndpoint      string        `json:"api_endpoint,omitempty"`
	APIKey           string        `json:"api_key,omitempty"`
	RequestDelay     time.Duration `json:"request_delay,omitempty"`
}

// Source is a configured origin from which articles are collected.
type Source struct {
	ID                 int64        `json:"id"`
	Name               string       `json:"name"`
	URL                string       `json:"url"`
	Type               SourceType   `json:"source_type"`
	Country            string       `json:"country,omitempty"`  // ISO code
	Language           string       `json:"language,omitempty"` // ISO code
	IsActive           bool         `json:"is_active"`
	RenderJS           bool         `json:"render_js"`
	LastCollection     *time.Time   `json:"last_collection,omitempty"`
	CollectionInterval int          `json:"collection_interval"` // seconds
	MaxArticles        int          `json:"max_articles"`
	Scrape             ScrapeConfig `json:"scrape_config"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// IsDue reports whether the source should be collected at the given time.
func (s *Source) IsDue(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.LastCollection == nil {
		return true
	}
	interval := time.Duration(s.CollectionInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return now.Sub(*s.LastCollection) >= interval
}

// CollectionStatus is the outcome of a collection run.
type CollectionStatus string

const (
	CollectionSuccess CollectionStatus = "success"
	CollectionError   CollectionStatus = "error"
	CollectionPartial CollectionStatus = "partial"
)

// CollectionLog records a single collection run for a source.
type CollectionLog struct {
	ID            int64            `json:"id"`
	SourceID      int64            `json:"source_id"`
	SourceName    string           `json:"source_name,omitempty"`
	Status        CollectionStatus `json:"status"`
	ArticlesFound int              `json:"articles_found"`
	ArticlesSaved int              `json:"articles_saved"`
	Errors        []string         `json:"errors,omitempty"`
	Duration      float64          `json:"duration_seconds"`
	StartedAt     time.Time        `json:"started_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}
