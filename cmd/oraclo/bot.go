package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oraclo-news/oraclo/internal/bot"
	"github.com/oraclo-news/oraclo/internal/logging"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/store"
)

// botCmd creates the "bot" subcommand running only the Telegram bot.
func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run only the Telegram bot",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
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

	tgBot, err := bot.New(&cfg.Bot, st, observability.NewMetrics(logger), logger)
	if err != nil {
		return fmt.Errorf("start bot: %w", err)
	}

	tgBot.Run(ctx)
	return nil
}
