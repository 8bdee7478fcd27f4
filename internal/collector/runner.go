package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/queue"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

// taskQueue is the queue surface the runner needs: enqueue for
// processing plus the URL dedup set.
type taskQueue interface {
	Enqueue(ctx context.Context, ids ...int64) error
	IsSeen(ctx context.Context, urlHash string) (bool, error)
	MarkSeen(ctx context.Context, urlHash string) error
}

// Runner periodically scans for due sources and collects them with a
// bounded worker pool.
type Runner struct {
	store   *store.Store
	queue   taskQueue
	deps    *Deps
	cfg     *config.CollectorConfig
	metrics *observability.Metrics
	logger  *slog.Logger

	jobs chan *types.Source
	wg   sync.WaitGroup
}

// NewRunner wires a collection runner.
func NewRunner(st *store.Store, q *queue.Queue, deps *Deps, metrics *observability.Metrics) *Runner {
	return &Runner{
		store:   st,
		queue:   q,
		deps:    deps,
		cfg:     &deps.Config.Collector,
		metrics: metrics,
		logger:  deps.Logger.With("component", "collector"),
		jobs:    make(chan *types.Source),
	}
}

// Run starts the worker pool and the scan loop, blocking until the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	concurrency := r.cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	r.logger.Info("starting collection workers",
		"workers", concurrency,
		"scan_interval", r.cfg.ScanInterval,
	)

	for i := 0; i < concurrency; i++ {
		r.wg.Add(1)
		go r.worker(ctx, i)
	}

	ticker := time.NewTicker(r.cfg.ScanInterval)
	defer ticker.Stop()

	r.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			close(r.jobs)
			r.wg.Wait()
			r.logger.Info("collection runner stopped")
			return
		case <-ticker.C:
			r.scan(ctx)
		}
	}
}

// scan queries due sources and hands them to the workers.
func (r *Runner) scan(ctx context.Context) {
	sources, err := r.store.DueSources(ctx, time.Now())
	if err != nil {
		r.logger.Error("due source scan failed", "error", err)
		return
	}
	if len(sources) == 0 {
		return
	}
	r.logger.Debug("sources due for collection", "count", len(sources))

	for _, src := range sources {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- src:
		}
	}
}

func (r *Runner) worker(ctx context.Context, id int) {
	defer r.wg.Done()
	logger := r.logger.With("worker_id", id)

	for src := range r.jobs {
		if ctx.Err() != nil {
			return
		}
		r.metrics.ActiveWorkers.Add(1)
		log := r.CollectSource(ctx, src)
		r.metrics.ActiveWorkers.Add(-1)

		if log.Status == types.CollectionError {
			logger.Warn("collection failed",
				"source", src.Name, "errors", log.Errors)
		} else {
			logger.Info("collection complete",
				"source", src.Name,
				"found", log.ArticlesFound,
				"saved", log.ArticlesSaved,
				"duration", log.Duration,
			)
		}

		if delay := r.cfg.PolitenessDelay; delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(RandomDelay(delay)):
			}
		}
	}
}

// CollectSource runs one full collection for a source: collect, dedup,
// persist, enqueue for processing, and log the run.
func (r *Runner) CollectSource(ctx context.Context, src *types.Source) *types.CollectionLog {
	started := time.Now()
	log := &types.CollectionLog{
		SourceID:   src.ID,
		SourceName: src.Name,
		Status:     types.CollectionSuccess,
		StartedAt:  started,
	}
	r.metrics.CollectionsTotal.Add(1)

	defer func() {
		completed := time.Now()
		log.CompletedAt = &completed
		log.Duration = completed.Sub(started).Seconds()
		if _, err := r.store.InsertCollectionLog(ctx, log); err != nil {
			r.logger.Error("collection log insert failed", "source", src.Name, "error", err)
		}
		if err := r.store.TouchCollection(ctx, src.ID, started); err != nil {
			r.logger.Error("collection timestamp update failed", "source", src.Name, "error", err)
		}
	}()

	coll, err := For(src, r.deps)
	if err != nil {
		log.Status = types.CollectionError
		log.Errors = append(log.Errors, err.Error())
		r.metrics.CollectionsFailed.Add(1)
		return log
	}

	articles, err := coll.Collect(ctx, src)
	if err != nil {
		log.Status = types.CollectionError
		log.Errors = append(log.Errors, err.Error())
		r.metrics.CollectionsFailed.Add(1)
		return log
	}
	log.ArticlesFound = len(articles)
	r.metrics.ArticlesFound.Add(int64(len(articles)))

	fresh := r.filterSeen(ctx, articles, log)
	if len(fresh) == 0 {
		return log
	}

	ids, err := r.store.SaveArticles(ctx, fresh)
	if err != nil {
		log.Status = types.CollectionPartial
		log.Errors = append(log.Errors, err.Error())
	} else {
		r.markSeen(ctx, fresh)
	}
	log.ArticlesSaved = len(ids)
	r.metrics.ArticlesSaved.Add(int64(len(ids)))
	r.metrics.ArticlesDuplicate.Add(int64(len(fresh) - len(ids)))

	if len(ids) > 0 {
		if err := r.queue.Enqueue(ctx, ids...); err != nil {
			log.Status = types.CollectionPartial
			log.Errors = append(log.Errors, err.Error())
		}
	}
	return log
}

// filterSeen drops articles whose canonical URL is in the Redis seen
// set. Survivors are marked only after they persist, so a failed save
// does not suppress the articles on the next run. Redis failures
// degrade to keeping the article; the database URL constraint still
// guarantees uniqueness.
func (r *Runner) filterSeen(ctx context.Context, articles []*types.Article, log *types.CollectionLog) []*types.Article {
	fresh := articles[:0]
	for _, a := range articles {
		hash := HashURL(CanonicalizeURL(a.URL))
		seen, err := r.queue.IsSeen(ctx, hash)
		if err != nil {
			r.logger.Warn("seen check failed", "url", a.URL, "error", err)
			fresh = append(fresh, a)
			continue
		}
		if seen {
			r.metrics.ArticlesDuplicate.Add(1)
			continue
		}
		fresh = append(fresh, a)
	}
	return fresh
}

// markSeen records saved articles in the dedup set.
func (r *Runner) markSeen(ctx context.Context, articles []*types.Article) {
	for _, a := range articles {
		hash := HashURL(CanonicalizeURL(a.URL))
		if err := r.queue.MarkSeen(ctx, hash); err != nil {
			r.logger.Warn("seen mark failed", "url", a.URL, "error", err)
		}
	}
}
