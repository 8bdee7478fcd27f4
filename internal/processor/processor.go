package processor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

// Manager runs the full enrichment pass over articles and persists
// the results.
type Manager struct {
	store     *store.Store
	sentiment *SentimentAnalyzer
	keywords  *KeywordExtractor
	entities  *EntityExtractor
	quality   *QualityScorer
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewManager wires a processing manager from configuration.
func NewManager(st *store.Store, cfg *config.ProcessorConfig, metrics *observability.Metrics, logger *slog.Logger) *Manager {
	return &Manager{
		store:     st,
		sentiment: NewSentimentAnalyzer(cfg.PositiveThreshold, cfg.NegativeThreshold),
		keywords:  NewKeywordExtractor(cfg.MaxKeywords, cfg.MinKeywordLength),
		entities:  NewEntityExtractor(),
		quality:   NewQualityScorer(),
		metrics:   metrics,
		logger:    logger.With("component", "processor"),
	}
}

// AnalyzeSentiment scores arbitrary text, for ad-hoc API requests.
func (m *Manager) AnalyzeSentiment(text string) (*types.SentimentResult, error) {
	return m.sentiment.Analyze(text)
}

// ExtractKeywords extracts keywords from arbitrary text.
func (m *Manager) ExtractKeywords(text string) ([]types.Keyword, error) {
	return m.keywords.Extract(text)
}

// ExtractEntities extracts entities from arbitrary text.
func (m *Manager) ExtractEntities(text string) ([]types.Entity, error) {
	return m.entities.Extract(text)
}

// ScoreQuality rates an article draft.
func (m *Manager) ScoreQuality(a *types.Article) *types.QualityResult {
	return m.quality.Score(a)
}

// Analyze runs every enrichment pass over an article without touching
// the database.
func (m *Manager) Analyze(a *types.Article) *types.AnalysisBundle {
	start := time.Now()
	text := a.Title
	if a.Content != "" {
		text += ". " + a.Content
	}

	bundle := &types.AnalysisBundle{}

	if res, err := m.sentiment.Analyze(text); err == nil {
		bundle.Sentiment = *res
	} else {
		// Unanalyzable text (e.g. empty after cleaning) still gets a
		// well-formed label so filters and the dashboard never see "".
		bundle.Sentiment.Label = "neutral"
	}
	if kws, err := m.keywords.Extract(text); err == nil {
		bundle.Keywords = kws
	}
	if ents, err := m.entities.Extract(text); err == nil {
		bundle.Entities = ents
	}
	bundle.Quality = *m.quality.Score(a)
	bundle.Elapsed = time.Since(start).Seconds()
	return bundle
}

// Breaking-news cues in headlines.
var breakingWords = []string{"breaking", "urgent", "just in", "live:", "developing"}

// IsBreakingTitle reports whether a headline carries breaking-news cues.
func IsBreakingTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, w := range breakingWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// ProcessArticle enriches one stored article: runs all analyses, writes
// them back to the article row, and upserts per-type analysis records.
func (m *Manager) ProcessArticle(ctx context.Context, articleID int64) (*types.AnalysisBundle, error) {
	a, err := m.store.GetArticle(ctx, articleID)
	if err != nil {
		m.metrics.ProcessingErrors.Add(1)
		return nil, &types.ProcessError{ArticleID: articleID, Stage: "load", Err: err}
	}

	bundle := m.Analyze(a)

	if IsBreakingTitle(a.Title) && !a.IsBreaking {
		if err := m.store.SetBreaking(ctx, articleID, types.PriorityHigh); err != nil {
			m.logger.Warn("breaking flag update failed", "article_id", articleID, "error", err)
		}
	}

	if err := m.store.ApplyAnalysis(ctx, articleID, bundle); err != nil {
		m.metrics.ProcessingErrors.Add(1)
		return nil, &types.ProcessError{ArticleID: articleID, Stage: "apply", Err: err}
	}

	perType := []struct {
		typ        types.AnalysisType
		result     any
		confidence float64
	}{
		{types.AnalysisSentiment, bundle.Sentiment, bundle.Sentiment.Confidence},
		{types.AnalysisKeywords, bundle.Keywords, 1.0},
		{types.AnalysisEntities, bundle.Entities, avgEntityConfidence(bundle.Entities)},
		{types.AnalysisQuality, bundle.Quality, bundle.Quality.Overall},
	}
	for _, p := range perType {
		analysis := &types.Analysis{
			ArticleID:      articleID,
			Type:           p.typ,
			Result:         p.result,
			Confidence:     p.confidence,
			ProcessingTime: bundle.Elapsed,
		}
		if err := m.store.UpsertAnalysis(ctx, analysis); err != nil {
			m.metrics.ProcessingErrors.Add(1)
			return nil, &types.ProcessError{ArticleID: articleID, Stage: p.typ, Err: err}
		}
	}

	m.metrics.ArticlesProcessed.Add(1)
	m.logger.Debug("article processed",
		"article_id", articleID,
		"sentiment", bundle.Sentiment.Label,
		"keywords", len(bundle.Keywords),
		"entities", len(bundle.Entities),
		"quality", bundle.Quality.Overall,
	)
	return bundle, nil
}

// ProcessBacklog enriches up to limit articles still in collected state.
// Used by the one-shot process command and as a queue-drain fallback.
func (m *Manager) ProcessBacklog(ctx context.Context, limit int) (int, error) {
	ids, err := m.store.UnprocessedArticleIDs(ctx, limit)
	if err != nil {
		return 0, err
	}
	processed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if _, err := m.ProcessArticle(ctx, id); err != nil {
			m.logger.Warn("backlog processing failed", "article_id", id, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

func avgEntityConfidence(ents []types.Entity) float64 {
	if len(ents) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range ents {
		sum += e.Confidence
	}
	return sum / float64(len(ents))
}
