package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oraclo-news/oraclo/internal/types"
)

// InsertAlert persists an alert and returns its ID.
func (s *Store) InsertAlert(ctx context.Context, a *types.Alert) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO alerts (title, message, alert_type, priority, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		a.Title, a.Message, a.Type, a.Priority, true,
	).Scan(&id)
	if err != nil {
		return 0, &types.StoreError{Op: "insert_alert", Err: err}
	}
	a.ID = id
	return id, nil
}

// ListAlerts returns alerts newest first, optionally filtered by type
// and unread status.
func (s *Store) ListAlerts(ctx context.Context, alertType types.AlertType, unreadOnly bool, limit int) ([]*types.Alert, error) {
	sql := `SELECT id, title, message, alert_type, priority, is_active, is_read, created_at, read_at
		FROM alerts WHERE is_active`
	var args []any
	if alertType != "" {
		args = append(args, alertType)
		sql += fmt.Sprintf(" AND alert_type = $%d", len(args))
	}
	if unreadOnly {
		sql += " AND NOT is_read"
	}
	sql += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &types.StoreError{Op: "list_alerts", Err: err}
	}
	defer rows.Close()

	var out []*types.Alert
	for rows.Next() {
		var a types.Alert
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.Type, &a.Priority,
			&a.IsActive, &a.IsRead, &a.CreatedAt, &a.ReadAt); err != nil {
			return nil, &types.StoreError{Op: "list_alerts", Err: err}
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// MarkAlertRead flags an alert as read.
func (s *Store) MarkAlertRead(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE alerts SET is_read = TRUE, read_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return &types.StoreError{Op: "mark_alert_read", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// RecentAlertExists reports whether an alert of the given type was
// raised within the window. The alert engine uses this to avoid
// re-raising the same condition every scan.
func (s *Store) RecentAlertExists(ctx context.Context, alertType types.AlertType, window time.Duration) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM alerts WHERE alert_type = $1 AND created_at >= $2
		)`, alertType, time.Now().Add(-window)).Scan(&exists)
	if err != nil {
		return false, &types.StoreError{Op: "recent_alert_exists", Err: err}
	}
	return exists, nil
}
