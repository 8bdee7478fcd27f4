package processor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/queue"
	"github.com/oraclo-news/oraclo/internal/types"
)

// Pool consumes the processing queue with a fixed set of workers.
type Pool struct {
	manager *Manager
	queue   *queue.Queue
	cfg     *config.ProcessorConfig
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewPool wires a processing worker pool.
func NewPool(m *Manager, q *queue.Queue, cfg *config.ProcessorConfig) *Pool {
	return &Pool{
		manager: m,
		queue:   q,
		cfg:     cfg,
		logger:  m.logger.With("component", "processor_pool"),
	}
}

// Run starts the workers and blocks until the context is cancelled.
func (p *Pool) Run(ctx context.Context) {
	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	p.logger.Info("starting processing workers", "workers", workers)

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.wg.Wait()
	p.logger.Info("processing pool stopped")
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	logger := p.logger.With("worker_id", id)

	for {
		if ctx.Err() != nil {
			return
		}

		if depth, err := p.queue.Depth(ctx); err == nil {
			p.manager.metrics.QueueDepth.Store(depth)
		}

		articleID, err := p.queue.Dequeue(ctx, p.cfg.DequeueTimeout)
		if err != nil {
			if errors.Is(err, types.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			logger.Error("dequeue failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		p.manager.metrics.ActiveWorkers.Add(1)
		_, err = p.manager.ProcessArticle(ctx, articleID)
		p.manager.metrics.ActiveWorkers.Add(-1)

		if err != nil {
			// Gone articles are not an error worth retrying
			if errors.Is(err, types.ErrNotFound) {
				logger.Debug("queued article no longer exists", "article_id", articleID)
				continue
			}
			logger.Warn("processing failed", "article_id", articleID, "error", err)
		}
	}
}
