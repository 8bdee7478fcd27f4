package store

import (
	"context"
	"fmt"

	"github.com/oraclo-news/oraclo/internal/types"
)

// UpsertAnalysis stores one enrichment result, replacing any previous
// result of the same type for the article.
func (s *Store) UpsertAnalysis(ctx context.Context, a *types.Analysis) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analyses (article_id, analysis_type, result, confidence, processing_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (article_id, analysis_type)
		DO UPDATE SET result = EXCLUDED.result,
		              confidence = EXCLUDED.confidence,
		              processing_time = EXCLUDED.processing_time,
		              created_at = now()`,
		a.ArticleID, a.Type, a.Result, a.Confidence, a.ProcessingTime)
	if err != nil {
		return &types.StoreError{Op: "upsert_analysis", Err: err}
	}
	return nil
}

// ListAnalyses returns analyses, optionally filtered by article and type.
func (s *Store) ListAnalyses(ctx context.Context, articleID int64, analysisType types.AnalysisType, limit int) ([]*types.Analysis, error) {
	sql := `SELECT id, article_id, analysis_type, result, confidence, processing_time, created_at
		FROM analyses`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var conds []string
	if articleID > 0 {
		conds = append(conds, "article_id = "+arg(articleID))
	}
	if analysisType != "" {
		conds = append(conds, "analysis_type = "+arg(analysisType))
	}
	for i, c := range conds {
		if i == 0 {
			sql += " WHERE " + c
		} else {
			sql += " AND " + c
		}
	}
	sql += " ORDER BY created_at DESC"
	if limit > 0 {
		sql += " LIMIT " + arg(limit)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &types.StoreError{Op: "list_analyses", Err: err}
	}
	defer rows.Close()

	var out []*types.Analysis
	for rows.Next() {
		var a types.Analysis
		if err := rows.Scan(&a.ID, &a.ArticleID, &a.Type, &a.Result,
			&a.Confidence, &a.ProcessingTime, &a.CreatedAt); err != nil {
			return nil, &types.StoreError{Op: "list_analyses", Err: err}
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
