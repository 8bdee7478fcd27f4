package types

import "time"

// AnalysisType identifies an enrichment pass over an article.
type AnalysisType string

const (
	AnalysisSentiment AnalysisType = "sentiment"
	AnalysisEntities  AnalysisType = "entities"
	AnalysisKeywords  AnalysisType = "keywords"
	AnalysisQuality   AnalysisType = "quality"
)

// Analysis is one stored enrichment result for an article.
// At most one row exists per (article, type); reprocessing upserts.
type Analysis struct {
	ID             int64        `json:"id"`
	ArticleID      int64        `json:"article_id"`
	Type           AnalysisType `json:"analysis_type"`
	Result         any          `json:"result"`
	Confidence     float64      `json:"confidence"`
	ProcessingTime float64      `json:"processing_time"` // seconds
	CreatedAt      time.Time    `json:"created_at"`
}

// SentimentResult is the outcome of sentiment analysis on a text.
type SentimentResult struct {
	Score      float64            `json:"score"` // VADER compound, -1..1
	Label      string             `json:"label"` // positive, negative, neutral
	Confidence float64            `json:"confidence"`
	Details    map[string]float64 `json:"details,omitempty"`
}

// QualityResult is the outcome of quality scoring on an article.
type QualityResult struct {
	Overall      float64        `json:"overall_score"`
	Readability  float64        `json:"readability"`
	Completeness float64        `json:"completeness"`
	Accuracy     float64        `json:"accuracy"`
	Relevance    float64        `json:"relevance"`
	Factors      map[string]any `json:"factors,omitempty"`
}

// AnalysisBundle carries the full set of enrichment results for one article.
type AnalysisBundle struct {
	Sentiment SentimentResult `json:"sentiment"`
	Keywords  []Keyword       `json:"keywords"`
	Entities  []Entity        `json:"entities"`
	Quality   QualityResult   `json:"quality"`
	Elapsed   float64         `json:"processing_time"`
}

// AlertType classifies what triggered an alert.
type AlertType string

const (
	AlertBreakingNews    AlertType = "breaking_news"
	AlertTrending        AlertType = "trending"
	AlertSentimentChange AlertType = "sentiment_change"
	AlertVolumeSpike     AlertType = "volume_spike"
	AlertKeywordMatch    AlertType = "keyword_match"
	AlertSourceOffline   AlertType = "source_offline"
)

// Alert is a persisted notification raised by the alert engine.
type Alert struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      AlertType  `json:"alert_type"`
	Priority  Priority   `json:"priority"`
	IsActive  bool       `json:"is_active"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
