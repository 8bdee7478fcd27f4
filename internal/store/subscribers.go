package store

import (
	"context"

	"github.com/oraclo-news/oraclo/internal/types"
)

// AddSubscriber registers a chat for alert broadcasts, idempotently.
func (s *Store) AddSubscriber(ctx context.Context, chatID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bot_subscribers (chat_id) VALUES ($1)
		ON CONFLICT DO NOTHING`, chatID)
	if err != nil {
		return &types.StoreError{Op: "add_subscriber", Err: err}
	}
	return nil
}

// RemoveSubscriber drops a chat from alert broadcasts.
func (s *Store) RemoveSubscriber(ctx context.Context, chatID int64) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM bot_subscribers WHERE chat_id = $1`, chatID)
	if err != nil {
		return &types.StoreError{Op: "remove_subscriber", Err: err}
	}
	return nil
}

// ListSubscribers returns all subscribed chat IDs.
func (s *Store) ListSubscribers(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT chat_id FROM bot_subscribers ORDER BY chat_id`)
	if err != nil {
		return nil, &types.StoreError{Op: "list_subscribers", Err: err}
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &types.StoreError{Op: "list_subscribers", Err: err}
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
