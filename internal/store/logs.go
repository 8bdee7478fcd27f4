package store

import (
	"context"
	"fmt"

	"github.com/oraclo-news/oraclo/internal/types"
)

// InsertCollectionLog records one collection run.
func (s *Store) InsertCollectionLog(ctx context.Context, l *types.CollectionLog) (int64, error) {
	errs := l.Errors
	if errs == nil {
		errs = []string{}
	}
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO collection_logs (source_id, status, articles_found, articles_saved,
			errors, duration, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		l.SourceID, l.Status, l.ArticlesFound, l.ArticlesSaved,
		errs, l.Duration, l.StartedAt, l.CompletedAt,
	).Scan(&id)
	if err != nil {
		return 0, &types.StoreError{Op: "insert_collection_log", Err: err}
	}
	l.ID = id
	return id, nil
}

// ListCollectionLogs returns recent collection runs newest first,
// optionally filtered by source and status.
func (s *Store) ListCollectionLogs(ctx context.Context, sourceID int64, status types.CollectionStatus, limit int) ([]*types.CollectionLog, error) {
	sql := `SELECT l.id, l.source_id, s.name, l.status, l.articles_found, l.articles_saved,
			l.errors, l.duration, l.started_at, l.completed_at
		FROM collection_logs l JOIN sources s ON s.id = l.source_id`
	var args []any
	var conds []string
	if sourceID > 0 {
		args = append(args, sourceID)
		conds = append(conds, fmt.Sprintf("l.source_id = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("l.status = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			sql += " WHERE " + c
		} else {
			sql += " AND " + c
		}
	}
	sql += " ORDER BY l.started_at DESC"
	if limit > 0 {
		args = append(args, limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &types.StoreError{Op: "list_collection_logs", Err: err}
	}
	defer rows.Close()

	var out []*types.CollectionLog
	for rows.Next() {
		var l types.CollectionLog
		if err := rows.Scan(&l.ID, &l.SourceID, &l.SourceName, &l.Status,
			&l.ArticlesFound, &l.ArticlesSaved, &l.Errors, &l.Duration,
			&l.StartedAt, &l.CompletedAt); err != nil {
			return nil, &types.StoreError{Op: "list_collection_logs", Err: err}
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
