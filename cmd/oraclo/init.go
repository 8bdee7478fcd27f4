package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oraclo-news/oraclo/internal/logging"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

var initSeed bool

// initCmd creates the "init" subcommand: schema setup plus optional seeds.
func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Long: `Create all tables and indexes in the configured PostgreSQL
database. With --seed, also insert the default categories and a
starter set of RSS sources.`,
		RunE: runInit,
	}

	cmd.Flags().BoolVar(&initSeed, "seed", false, "insert default categories and starter sources")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("create schema: %w", err)
	}
	fmt.Println("Schema ready.")

	if !initSeed {
		return nil
	}

	categories := []*types.Category{
		{Name: "Politics", Slug: "politics", Color: "#ef4444", IsActive: true},
		{Name: "Business", Slug: "business", Color: "#f59e0b", IsActive: true},
		{Name: "Technology", Slug: "technology", Color: "#38bdf8", IsActive: true},
		{Name: "Science", Slug: "science", Color: "#818cf8", IsActive: true},
		{Name: "Health", Slug: "health", Color: "#4ade80", IsActive: true},
		{Name: "Sports", Slug: "sports", Color: "#fb923c", IsActive: true},
		{Name: "World", Slug: "world", Color: "#94a3b8", IsActive: true},
	}
	for _, cat := range categories {
		if _, err := st.CreateCategory(ctx, cat); err != nil {
			return fmt.Errorf("seed category %q: %w", cat.Slug, err)
		}
	}
	fmt.Printf("Seeded %d categories.\n", len(categories))

	sources := []*types.Source{
		{
			Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml",
			Type: types.SourceRSS, Country: "GB", Language: "en",
			IsActive: true, CollectionInterval: 600, MaxArticles: 50,
		},
		{
			Name: "Reuters Top News", URL: "https://www.reutersagency.com/feed/?best-topics=top-news",
			Type: types.SourceRSS, Country: "US", Language: "en",
			IsActive: true, CollectionInterval: 600, MaxArticles: 50,
		},
		{
			Name: "The Guardian International", URL: "https://www.theguardian.com/international/rss",
			Type: types.SourceRSS, Country: "GB", Language: "en",
			IsActive: true, CollectionInterval: 900, MaxArticles: 50,
		},
	}
	var seeded int
	for _, src := range sources {
		if _, err := st.CreateSource(ctx, src); err != nil {
			if errors.Is(err, types.ErrDuplicateURL) {
				continue
			}
			return fmt.Errorf("seed source %q: %w", src.Name, err)
		}
		seeded++
	}
	fmt.Printf("Seeded %d sources.\n", seeded)
	return nil
}
