// Package queue provides the Redis-backed work queue between the
// collector and the processor, plus the cross-run URL dedup set.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/types"
)

const (
	processQueueKey = "oraclo:process:queue"
	seenKeyPrefix   = "oraclo:seen:"
)

// Queue is a Redis list of article IDs awaiting enrichment.
type Queue struct {
	client   *redis.Client
	logger   *slog.Logger
	dedupTTL time.Duration
}

// New connects to Redis and pings it.
func New(ctx context.Context, cfg config.QueueConfig, dedupTTL time.Duration, logger *slog.Logger) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Queue{
		client:   client,
		logger:   logger.With("component", "queue"),
		dedupTTL: dedupTTL,
	}, nil
}

// Enqueue pushes article IDs onto the processing queue.
func (q *Queue) Enqueue(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	vals := make([]interface{}, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	if err := q.client.LPush(ctx, processQueueKey, vals...).Err(); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	q.logger.Debug("enqueued articles", "count", len(ids))
	return nil
}

// Dequeue blocks up to timeout for the next article ID. It returns
// types.ErrQueueEmpty when the timeout elapses with nothing queued.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (int64, error) {
	res, err := q.client.BRPop(ctx, timeout, processQueueKey).Result()
	if err == redis.Nil {
		return 0, types.ErrQueueEmpty
	}
	if err != nil {
		return 0, fmt.Errorf("dequeue: %w", err)
	}
	// BRPOP returns [key, value]
	id, err := strconv.ParseInt(res[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("dequeue: bad payload %q: %w", res[1], err)
	}
	return id, nil
}

// Depth returns the number of queued article IDs.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, processQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return n, nil
}

// MarkSeen records a URL hash so repeat collections skip it. The key
// expires after the dedup TTL so stale entries age out.
func (q *Queue) MarkSeen(ctx context.Context, urlHash string) error {
	if err := q.client.Set(ctx, seenKeyPrefix+urlHash, 1, q.dedupTTL).Err(); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// IsSeen reports whether a URL hash was marked within the dedup TTL.
func (q *Queue) IsSeen(ctx context.Context, urlHash string) (bool, error) {
	n, err := q.client.Exists(ctx, seenKeyPrefix+urlHash).Result()
	if err != nil {
		return false, fmt.Errorf("is seen: %w", err)
	}
	return n > 0, nil
}

// Close releases the Redis connection.
func (q *Queue) Close() error {
	return q.client.Close()
}
