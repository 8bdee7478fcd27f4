package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oraclo-news/oraclo/internal/types"
)

const articleColumns = `a.id, a.uuid, a.title, a.content, a.summary, a.url, a.source_id, s.name,
	a.author, a.published_at, a.collected_at, a.status, a.priority,
	a.sentiment_score, a.sentiment_label, a.relevance_score, a.keywords, a.entities,
	a.views_count, a.shares_count, a.is_breaking, a.is_featured`

func scanArticle(row pgx.Row) (*types.Article, error) {
	var a types.Article
	err := row.Scan(
		&a.ID, &a.UUID, &a.Title, &a.Content, &a.Summary, &a.URL, &a.SourceID, &a.SourceName,
		&a.Author, &a.PublishedAt, &a.CollectedAt, &a.Status, &a.Priority,
		&a.SentimentScore, &a.SentimentLabel, &a.RelevanceScore, &a.Keywords, &a.Entities,
		&a.ViewsCount, &a.SharesCount, &a.IsBreaking, &a.IsFeatured,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveArticles inserts a batch of collected articles, skipping URL duplicates.
// Saved article IDs are returned for enqueueing.
func (s *Store) SaveArticles(ctx context.Context, articles []*types.Article) ([]int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &types.StoreError{Op: "save_articles", Err: err}
	}
	defer tx.Rollback(ctx)

	var ids []int64
	for _, a := range articles {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO articles (uuid, title, content, summary, url, source_id, author,
				published_at, collected_at, status, priority, is_breaking)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (url) DO NOTHING
			RETURNING id`,
			a.UUID, a.Title, a.Content, a.Summary, a.URL, a.SourceID, a.Author,
			a.PublishedAt, a.CollectedAt, a.Status, a.Priority, a.IsBreaking,
		).Scan(&id)
		if err != nil {
			if err == pgx.ErrNoRows {
				// Lost the conflict: already stored
				continue
			}
			return ids, &types.StoreError{Op: "save_articles", Err: err}
		}
		a.ID = id
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &types.StoreError{Op: "save_articles", Err: err}
	}
	s.logger.Debug("articles saved", "found", len(articles), "saved", len(ids))
	return ids, nil
}

// GetArticle returns one article by ID.
func (s *Store) GetArticle(ctx context.Context, id int64) (*types.Article, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM articles a JOIN sources s ON s.id = a.source_id
		WHERE a.id = $1`, articleColumns), id)
	a, err := scanArticle(row)
	if err == pgx.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "get_article", Err: err}
	}
	return a, nil
}

// ListArticles returns a filtered, paginated page of articles plus the
// total row count for that filter.
func (s *Store) ListArticles(ctx context.Context, f ArticleFilter) ([]*types.Article, int, error) {
	where, args := f.whereClause(1)

	var total int
	countSQL := fmt.Sprintf("SELECT count(*) FROM articles a %s", where)
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, &types.StoreError{Op: "list_articles", Err: err}
	}

	limit, offset := f.limitOffset()
	listSQL := fmt.Sprintf(`
		SELECT %s FROM articles a JOIN sources s ON s.id = a.source_id
		%s %s LIMIT %d OFFSET %d`,
		articleColumns, where, f.orderClause(), limit, offset)

	rows, err := s.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, &types.StoreError{Op: "list_articles", Err: err}
	}
	defer rows.Close()

	var out []*types.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, &types.StoreError{Op: "list_articles", Err: err}
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// BreakingArticles returns breaking news collected within the window.
func (s *Store) BreakingArticles(ctx context.Context, window time.Duration, limit int) ([]*types.Article, error) {
	arts, _, err := s.ListArticles(ctx, ArticleFilter{
		Breaking: true,
		From:     time.Now().Add(-window),
		OrderBy:  "-collected_at",
		PageSize: limit,
	})
	return arts, err
}

// TrendingArticles returns the most viewed/shared articles in the window.
func (s *Store) TrendingArticles(ctx context.Context, window time.Duration, limit int) ([]*types.Article, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM articles a JOIN sources s ON s.id = a.source_id
		WHERE a.collected_at >= $1
		ORDER BY a.views_count DESC, a.shares_count DESC
		LIMIT $2`, articleColumns),
		time.Now().Add(-window), limit)
	if err != nil {
		return nil, &types.StoreError{Op: "trending_articles", Err: err}
	}
	defer rows.Close()

	var out []*types.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, &types.StoreError{Op: "trending_articles", Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ArticleCountBetween counts articles collected in [from, to).
func (s *Store) ArticleCountBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM articles WHERE collected_at >= $1 AND collected_at < $2`,
		from, to).Scan(&n)
	if err != nil {
		return 0, &types.StoreError{Op: "article_count", Err: err}
	}
	return n, nil
}

// AvgSentimentBetween averages sentiment over articles collected in
// [from, to). The boolean is false when no scored articles exist there.
func (s *Store) AvgSentimentBetween(ctx context.Context, from, to time.Time) (float64, bool, error) {
	var avg *float64
	err := s.pool.QueryRow(ctx, `
		SELECT avg(sentiment_score) FROM articles
		WHERE sentiment_score IS NOT NULL AND collected_at >= $1 AND collected_at < $2`,
		from, to).Scan(&avg)
	if err != nil {
		return 0, false, &types.StoreError{Op: "avg_sentiment", Err: err}
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

// UnprocessedArticleIDs returns IDs of articles still awaiting enrichment.
func (s *Store) UnprocessedArticleIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM articles WHERE status = $1 ORDER BY collected_at LIMIT $2`,
		types.StatusCollected, limit)
	if err != nil {
		return nil, &types.StoreError{Op: "unprocessed_articles", Err: err}
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &types.StoreError{Op: "unprocessed_articles", Err: err}
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ApplyAnalysis writes enrichment results back onto the article row.
func (s *Store) ApplyAnalysis(ctx context.Context, articleID int64, b *types.AnalysisBundle) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE articles
		SET sentiment_score = $2, sentiment_label = $3, relevance_score = $4,
		    keywords = $5, entities = $6, status = $7
		WHERE id = $1`,
		articleID, b.Sentiment.Score, b.Sentiment.Label, b.Quality.Overall,
		b.Keywords, b.Entities, types.StatusAnalyzed)
	if err != nil {
		return &types.StoreError{Op: "apply_analysis", Err: err}
	}
	return nil
}

// SetBreaking flags an article as breaking news and raises its priority.
func (s *Store) SetBreaking(ctx context.Context, id int64, priority types.Priority) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE articles SET is_breaking = TRUE, priority = $2 WHERE id = $1`, id, priority)
	if err != nil {
		return &types.StoreError{Op: "set_breaking", Err: err}
	}
	return nil
}

// IncrementViews bumps the view counter for an article.
func (s *Store) IncrementViews(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE articles SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return &types.StoreError{Op: "increment_views", Err: err}
	}
	return nil
}
