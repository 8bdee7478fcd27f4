package store

import (
	"context"
	"time"

	"github.com/oraclo-news/oraclo/internal/types"
)

// Stats is the platform-wide summary served by the stats endpoint and
// the dashboard.
type Stats struct {
	TotalArticles      int                `json:"total_articles"`
	ArticlesToday      int                `json:"articles_today"`
	BreakingCount      int                `json:"breaking_count"`
	StatusCounts       map[string]int     `json:"status_distribution"`
	CategoryCounts     map[string]int     `json:"category_distribution"`
	AverageSentiment   float64            `json:"average_sentiment"`
	SentimentCounts    map[string]int     `json:"sentiment_distribution"`
	MostActiveSources  []SourceActivity   `json:"most_active_sources"`
	Sources            SourceStats        `json:"sources"`
	UnreadAlerts       int                `json:"unread_alerts"`
	GeneratedAt        time.Time          `json:"generated_at"`
}

// SourceActivity counts articles collected per source in the window.
type SourceActivity struct {
	SourceID   int64  `json:"source_id"`
	SourceName string `json:"source_name"`
	Articles   int    `json:"articles"`
}

// TrendingTerm is a keyword or entity ranked by occurrence count.
type TrendingTerm struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// GetStats aggregates the platform summary over the given window for
// per-source activity (totals are all-time, "today" is midnight UTC).
func (s *Store) GetStats(ctx context.Context, window time.Duration) (*Stats, error) {
	st := &Stats{
		StatusCounts:    map[string]int{},
		CategoryCounts:  map[string]int{},
		SentimentCounts: map[string]int{},
		GeneratedAt:     time.Now().UTC(),
	}
	since := time.Now().Add(-window)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM articles),
			(SELECT count(*) FROM articles WHERE collected_at >= $1),
			(SELECT count(*) FROM articles WHERE is_breaking AND collected_at >= $2),
			(SELECT coalesce(avg(sentiment_score), 0) FROM articles WHERE sentiment_score IS NOT NULL),
			(SELECT count(*) FROM alerts WHERE is_active AND NOT is_read)`,
		today, since,
	).Scan(&st.TotalArticles, &st.ArticlesToday, &st.BreakingCount,
		&st.AverageSentiment, &st.UnreadAlerts)
	if err != nil {
		return nil, &types.StoreError{Op: "stats", Err: err}
	}

	if err := s.countInto(ctx, st.StatusCounts,
		`SELECT status, count(*) FROM articles GROUP BY status`); err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, st.CategoryCounts, `
		SELECT c.name, count(*)
		FROM article_categories ac JOIN categories c ON c.id = ac.category_id
		GROUP BY c.name`); err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, st.SentimentCounts, `
		SELECT CASE
			WHEN sentiment_score > $1 THEN 'positive'
			WHEN sentiment_score < $2 THEN 'negative'
			ELSE 'neutral'
		END, count(*)
		FROM articles WHERE sentiment_score IS NOT NULL
		GROUP BY 1`, sentimentPositiveMin, sentimentNegativeMax); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.name, count(*) AS n
		FROM articles a JOIN sources s ON s.id = a.source_id
		WHERE a.collected_at >= $1
		GROUP BY s.id, s.name
		ORDER BY n DESC
		LIMIT 10`, since)
	if err != nil {
		return nil, &types.StoreError{Op: "stats", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var sa SourceActivity
		if err := rows.Scan(&sa.SourceID, &sa.SourceName, &sa.Articles); err != nil {
			return nil, &types.StoreError{Op: "stats", Err: err}
		}
		st.MostActiveSources = append(st.MostActiveSources, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.StoreError{Op: "stats", Err: err}
	}

	srcStats, err := s.GetSourceStats(ctx)
	if err != nil {
		return nil, err
	}
	st.Sources = *srcStats
	return st, nil
}

func (s *Store) countInto(ctx context.Context, dst map[string]int, sql string, args ...any) error {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return &types.StoreError{Op: "stats", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return &types.StoreError{Op: "stats", Err: err}
		}
		dst[key] = n
	}
	return rows.Err()
}

// TrendingKeywords ranks keywords extracted from articles in the window.
func (s *Store) TrendingKeywords(ctx context.Context, window time.Duration, limit int) ([]TrendingTerm, error) {
	return s.trendingTerms(ctx, `
		SELECT lower(kw->>'text') AS term, count(*) AS n
		FROM articles a, jsonb_array_elements(a.keywords) kw
		WHERE a.collected_at >= $1
		GROUP BY term
		ORDER BY n DESC
		LIMIT $2`, window, limit)
}

// TrendingEntities ranks named entities mentioned in the window.
func (s *Store) TrendingEntities(ctx context.Context, window time.Duration, limit int) ([]TrendingTerm, error) {
	return s.trendingTerms(ctx, `
		SELECT ent->>'text' AS term, count(*) AS n
		FROM articles a, jsonb_array_elements(a.entities) ent
		WHERE a.collected_at >= $1
		GROUP BY term
		ORDER BY n DESC
		LIMIT $2`, window, limit)
}

func (s *Store) trendingTerms(ctx context.Context, sql string, window time.Duration, limit int) ([]TrendingTerm, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, sql, time.Now().Add(-window), limit)
	if err != nil {
		return nil, &types.StoreError{Op: "trending_terms", Err: err}
	}
	defer rows.Close()

	var out []TrendingTerm
	for rows.Next() {
		var t TrendingTerm
		if err := rows.Scan(&t.Term, &t.Count); err != nil {
			return nil, &types.StoreError{Op: "trending_terms", Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
