package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oraclo-news/oraclo/internal/collector"
	"github.com/oraclo-news/oraclo/internal/logging"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/queue"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

var (
	collectSourceID int64
	collectAll      bool
)

// collectCmd creates the "collect" subcommand for one-shot collection runs.
func collectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection pass and exit",
		Long: `Collect articles from due sources once, without starting the
long-running platform. Use --source to collect a single source
regardless of its schedule, or --all to collect every active source.`,
		RunE: runCollect,
	}

	cmd.Flags().Int64VarP(&collectSourceID, "source", "s", 0, "collect only this source id")
	cmd.Flags().BoolVarP(&collectAll, "all", "a", false, "collect every active source, due or not")

	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging)

	ctx, stop := signalContext()
	defer stop()

	st, err := store.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	q, err := queue.New(ctx, cfg.Queue, cfg.Collector.DedupTTL, logger)
	if err != nil {
		return fmt.Errorf("connect queue: %w", err)
	}
	defer q.Close()

	metrics := observability.NewMetrics(logger)
	fetch, err := collector.NewFetcher(cfg, metrics, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer fetch.Close()

	deps := &collector.Deps{Fetcher: fetch, Config: cfg, Logger: logger}
	if cfg.Fetcher.BrowserEnabled {
		browser, err := collector.NewBrowserFetcher(cfg, logger)
		if err != nil {
			logger.Warn("browser rendering unavailable", "error", err)
		} else {
			deps.Browser = browser
			defer browser.Close()
		}
	}

	runner := collector.NewRunner(st, q, deps, metrics)

	var sources []*types.Source
	switch {
	case collectSourceID > 0:
		src, err := st.GetSource(ctx, collectSourceID)
		if err != nil {
			return fmt.Errorf("source %d: %w", collectSourceID, err)
		}
		sources = append(sources, src)
	case collectAll:
		sources, err = st.ListSources(ctx, true)
		if err != nil {
			return fmt.Errorf("list sources: %w", err)
		}
	default:
		sources, err = st.DueSources(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("list due sources: %w", err)
		}
	}

	if len(sources) == 0 {
		fmt.Println("No sources to collect.")
		return nil
	}

	start := time.Now()
	var found, saved, failed int
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		log := runner.CollectSource(ctx, src)
		found += log.ArticlesFound
		saved += log.ArticlesSaved
		if log.Status == types.CollectionError {
			failed++
		}
	}

	fmt.Printf("\nCollection complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("   Sources:   %d collected, %d failed\n", len(sources), failed)
	fmt.Printf("   Articles:  %d found, %d saved\n", found, saved)
	return nil
}
