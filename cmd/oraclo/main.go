package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oraclo-news/oraclo/internal/alerts"
	"github.com/oraclo-news/oraclo/internal/api"
	"github.com/oraclo-news/oraclo/internal/bot"
	"github.com/oraclo-news/oraclo/internal/collector"
	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/dashboard"
	"github.com/oraclo-news/oraclo/internal/logging"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/processor"
	"github.com/oraclo-news/oraclo/internal/queue"
	"github.com/oraclo-news/oraclo/internal/store"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oraclo",
		Short: "ORACLO — news collection and analysis platform",
		Long: `ORACLO collects news from websites, RSS feeds, and JSON APIs,
enriches every article with sentiment, keywords, entities, and quality
scores, and serves the results over a REST API, a live dashboard, and
a Telegram bot.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(botCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds configuration with the verbose flag applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// serveCmd creates the "serve" subcommand running the full platform.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the full platform: collectors, processors, alerts, bot, and API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
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
	if err := st.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	q, err := queue.New(ctx, cfg.Queue, cfg.Collector.DedupTTL, logger)
	if err != nil {
		return fmt.Errorf("connect queue: %w", err)
	}
	defer q.Close()

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

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
	manager := processor.NewManager(st, &cfg.Processor, metrics, logger)
	pool := processor.NewPool(manager, q, &cfg.Processor)
	engine := alerts.NewEngine(st, &cfg.Alerts, metrics, logger)

	var tgBot *bot.Bot
	if cfg.Bot.Enabled {
		tgBot, err = bot.New(&cfg.Bot, st, metrics, logger)
		if err != nil {
			logger.Warn("telegram bot disabled", "error", err)
			tgBot = nil
		} else {
			engine.AddNotifier(tgBot)
		}
	}

	server := api.NewServer(&cfg.API, st, manager, runner, metrics, logger)
	dashboard.Mount(server.Router(), logger)

	var wg sync.WaitGroup
	run := func(f func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(ctx)
		}()
	}

	run(runner.Run)
	run(pool.Run)
	if cfg.Alerts.Enabled {
		run(engine.Run)
	}
	if tgBot != nil {
		run(tgBot.Run)
	}

	logger.Info("ORACLO started",
		"api_port", cfg.API.Port,
		"collectors", cfg.Collector.Concurrency,
		"processors", cfg.Processor.Workers,
		"bot", tgBot != nil,
	)

	err = server.Run(ctx)
	stop()
	wg.Wait()
	logger.Info("ORACLO stopped")
	return err
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ORACLO %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Collector:\n")
			fmt.Printf("  Concurrency:       %d\n", cfg.Collector.Concurrency)
			fmt.Printf("  Scan Interval:     %s\n", cfg.Collector.ScanInterval)
			fmt.Printf("  Politeness Delay:  %s\n", cfg.Collector.PolitenessDelay)
			fmt.Printf("  Max Retries:       %d\n", cfg.Collector.MaxRetries)
			fmt.Printf("  Dedup TTL:         %s\n", cfg.Collector.DedupTTL)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("  Browser Rendering: %v\n", cfg.Fetcher.BrowserEnabled)
			fmt.Printf("\nProcessor:\n")
			fmt.Printf("  Workers:           %d\n", cfg.Processor.Workers)
			fmt.Printf("  Max Keywords:      %d\n", cfg.Processor.MaxKeywords)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  DSN:               %s\n", cfg.Storage.DSN)
			fmt.Printf("  Max Conns:         %d\n", cfg.Storage.MaxConns)
			fmt.Printf("\nQueue:\n")
			fmt.Printf("  Addr:              %s\n", cfg.Queue.Addr)
			fmt.Printf("  DB:                %d\n", cfg.Queue.DB)
			fmt.Printf("\nAPI:\n")
			fmt.Printf("  Port:              %d\n", cfg.API.Port)
			fmt.Printf("  Page Size:         %d (max %d)\n", cfg.API.PageSize, cfg.API.MaxPageSize)
			fmt.Printf("\nBot:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Bot.Enabled)
			fmt.Printf("\nAlerts:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Alerts.Enabled)
			fmt.Printf("  Scan Interval:     %s\n", cfg.Alerts.ScanInterval)
			fmt.Printf("  Watched Keywords:  %d\n", len(cfg.Alerts.WatchedKeywords))
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}
