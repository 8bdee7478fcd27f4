package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oraclo-news/oraclo/internal/types"
)

// CreateCategory inserts a category if it does not already exist and
// returns its ID either way.
func (s *Store) CreateCategory(ctx context.Context, c *types.Category) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description, color)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		c.Name, c.Slug, c.Description, c.Color,
	).Scan(&id)
	if err != nil {
		return 0, &types.StoreError{Op: "create_category", Err: err}
	}
	c.ID = id
	return id, nil
}

// ListCategories returns active categories with their article counts.
func (s *Store) ListCategories(ctx context.Context) ([]*types.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, slug, description, color, is_active, created_at, updated_at
		FROM categories WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, &types.StoreError{Op: "list_categories", Err: err}
	}
	defer rows.Close()

	var out []*types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, &types.StoreError{Op: "list_categories", Err: err}
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// GetCategory looks up one category by ID.
func (s *Store) GetCategory(ctx context.Context, id int64) (*types.Category, error) {
	var c types.Category
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, slug, description, color, is_active, created_at, updated_at
		FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "get_category", Err: err}
	}
	return &c, nil
}

// GetCategoryBySlug looks up one category.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*types.Category, error) {
	var c types.Category
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, slug, description, color, is_active, created_at, updated_at
		FROM categories WHERE slug = $1`, slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "get_category", Err: err}
	}
	return &c, nil
}

// UpdateCategory updates mutable category fields.
func (s *Store) UpdateCategory(ctx context.Context, c *types.Category) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, color = $5, is_active = $6,
		    updated_at = now()
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.IsActive)
	if err != nil {
		return &types.StoreError{Op: "update_category", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category; article links cascade away.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return &types.StoreError{Op: "delete_category", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// AssignCategory links an article to a category, idempotently.
func (s *Store) AssignCategory(ctx context.Context, articleID, categoryID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO article_categories (article_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, articleID, categoryID)
	if err != nil {
		return &types.StoreError{Op: "assign_category", Err: err}
	}
	return nil
}
