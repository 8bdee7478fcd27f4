package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oraclo-news/oraclo/internal/logging"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/processor"
	"github.com/oraclo-news/oraclo/internal/store"
)

var processLimit int

// processCmd creates the "process" subcommand for one-shot enrichment.
func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Enrich unprocessed articles and exit",
		Long: `Run sentiment, keyword, entity, and quality analysis over articles
that were collected but never processed, then exit. The running
platform does this continuously; this command drains a backlog.`,
		RunE: runProcess,
	}

	cmd.Flags().IntVarP(&processLimit, "limit", "l", 500, "maximum articles to process")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
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

	manager := processor.NewManager(st, &cfg.Processor, observability.NewMetrics(logger), logger)

	start := time.Now()
	processed, err := manager.ProcessBacklog(ctx, processLimit)
	if err != nil {
		return fmt.Errorf("process backlog: %w", err)
	}

	fmt.Printf("Processed %d articles in %s\n", processed, time.Since(start).Round(time.Millisecond))
	return nil
}
