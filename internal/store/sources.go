package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oraclo-news/oraclo/internal/types"
)

const sourceColumns = `id, name, url, source_type, country, language, is_active, render_js,
	last_collection, collection_interval, max_articles, scrape_config, created_at, updated_at`

func scanSource(row pgx.Row) (*types.Source, error) {
	var src types.Source
	err := row.Scan(
		&src.ID, &src.Name, &src.URL, &src.Type, &src.Country, &src.Language,
		&src.IsActive, &src.RenderJS, &src.LastCollection, &src.CollectionInterval,
		&src.MaxArticles, &src.Scrape, &src.CreatedAt, &src.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// CreateSource inserts a source and returns its ID.
func (s *Store) CreateSource(ctx context.Context, src *types.Source) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sources (name, url, source_type, country, language, is_active,
			render_js, collection_interval, max_articles, scrape_config)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		src.Name, src.URL, src.Type, src.Country, src.Language, src.IsActive,
		src.RenderJS, src.CollectionInterval, src.MaxArticles, src.Scrape,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, types.ErrDuplicateURL
		}
		return 0, &types.StoreError{Op: "create_source", Err: err}
	}
	src.ID = id
	return id, nil
}

// GetSource returns one source by ID.
func (s *Store) GetSource(ctx context.Context, id int64) (*types.Source, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE id = $1`, id)
	src, err := scanSource(row)
	if err == pgx.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "get_source", Err: err}
	}
	return src, nil
}

// ListSources returns all sources, optionally only active ones.
func (s *Store) ListSources(ctx context.Context, activeOnly bool) ([]*types.Source, error) {
	sql := `SELECT ` + sourceColumns + ` FROM sources`
	if activeOnly {
		sql += ` WHERE is_active`
	}
	sql += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, &types.StoreError{Op: "list_sources", Err: err}
	}
	defer rows.Close()

	var out []*types.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, &types.StoreError{Op: "list_sources", Err: err}
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// DueSources returns active sources whose collection interval has elapsed.
func (s *Store) DueSources(ctx context.Context, now time.Time) ([]*types.Source, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+sourceColumns+` FROM sources
		WHERE is_active
		  AND (last_collection IS NULL
		       OR last_collection + collection_interval * INTERVAL '1 second' <= $1)
		ORDER BY last_collection NULLS FIRST`, now)
	if err != nil {
		return nil, &types.StoreError{Op: "due_sources", Err: err}
	}
	defer rows.Close()

	var out []*types.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, &types.StoreError{Op: "due_sources", Err: err}
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// UpdateSource updates mutable source fields.
func (s *Store) UpdateSource(ctx context.Context, src *types.Source) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sources
		SET name = $2, url = $3, source_type = $4, country = $5, language = $6,
		    is_active = $7, render_js = $8, collection_interval = $9,
		    max_articles = $10, scrape_config = $11, updated_at = now()
		WHERE id = $1`,
		src.ID, src.Name, src.URL, src.Type, src.Country, src.Language,
		src.IsActive, src.RenderJS, src.CollectionInterval, src.MaxArticles, src.Scrape)
	if err != nil {
		return &types.StoreError{Op: "update_source", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteSource removes a source and, via cascade, its articles and logs.
func (s *Store) DeleteSource(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return &types.StoreError{Op: "delete_source", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// TouchCollection stamps a source's last collection time.
func (s *Store) TouchCollection(ctx context.Context, id int64, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sources SET last_collection = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return &types.StoreError{Op: "touch_collection", Err: err}
	}
	return nil
}

// SourceStats summarizes source activity for the stats endpoints.
type SourceStats struct {
	TotalSources      int `json:"total_sources"`
	ActiveSources     int `json:"active_sources"`
	RecentCollections int `json:"recent_collections"`
}

// GetSourceStats returns source counts and the number of collections
// completed in the past 24 hours.
func (s *Store) GetSourceStats(ctx context.Context) (*SourceStats, error) {
	var st SourceStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM sources),
			(SELECT count(*) FROM sources WHERE is_active),
			(SELECT count(*) FROM collection_logs WHERE completed_at >= now() - INTERVAL '24 hours')
	`).Scan(&st.TotalSources, &st.ActiveSources, &st.RecentCollections)
	if err != nil {
		return nil, &types.StoreError{Op: "source_stats", Err: err}
	}
	return &st, nil
}
