package types

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus tracks an article's position in the enrichment pipeline.
type ArticleStatus string

const (
	StatusCollected ArticleStatus = "collected"
	StatusProcessed ArticleStatus = "processed"
	StatusAnalyzed  ArticleStatus = "analyzed"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// Priority levels for articles and alerts.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Article is a persisted news item with metadata and NLP-derived fields.
type Article struct {
	ID          int64         `json:"id"`
	UUID        uuid.UUID     `json:"uuid"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Summary     string        `json:"summary,omitempty"`
	URL         string        `json:"url"`
	SourceID    int64         `json:"source_id"`
	SourceName  string        `json:"source_name,omitempty"`
	Author      string        `json:"author,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CollectedAt time.Time     `json:"collected_at"`
	Status      ArticleStatus `json:"status"`
	Priority    Priority      `json:"priority"`

	// Analysis results, populated by the processor.
	SentimentScore *float64  `json:"sentiment_score,omitempty"`
	SentimentLabel string    `json:"sentiment_label,omitempty"`
	RelevanceScore *float64  `json:"relevance_score,omitempty"`
	Keywords       []Keyword `json:"keywords,omitempty"`
	Entities       []Entity  `json:"entities,omitempty"`

	ViewsCount  int  `json:"views_count"`
	SharesCount int  `json:"shares_count"`
	IsBreaking  bool `json:"is_breaking"`
	IsFeatured  bool `json:"is_featured"`
}

// NewArticle creates an Article draft from collected fields.
func NewArticle(title, content, url string, sourceID int64) *Article {
	return &Article{
		UUID:        uuid.New(),
		Title:       title,
		Content:     content,
		URL:         url,
		SourceID:    sourceID,
		CollectedAt: time.Now().UTC(),
		Status:      StatusCollected,
		Priority:    PriorityMedium,
	}
}

// AgeHours returns how long ago the article was collected.
func (a *Article) AgeHours() float64 {
	return time.Since(a.CollectedAt).Hours()
}

// Keyword is a scored keyword extracted from article text.
type Keyword struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Entity is a named entity extracted from article text.
type Entity struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"` // PERSON, ORG, LOC
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Category groups articles by topic.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
