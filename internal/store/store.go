// Package store provides PostgreSQL persistence for articles, sources,
// analyses, alerts, and collection logs.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oraclo-news/oraclo/internal/config"
)

// Schema is the PostgreSQL schema. URL uniqueness on articles is the
// dedup invariant; everything else is conventional.
const Schema = `
CREATE TABLE IF NOT EXISTS categories (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    slug        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    color       TEXT NOT NULL DEFAULT '#007bff',
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sources (
    id                  BIGSERIAL PRIMARY KEY,
    name                TEXT NOT NULL,
    url                 TEXT NOT NULL UNIQUE,
    source_type         TEXT NOT NULL DEFAULT 'website',
    country             TEXT NOT NULL DEFAULT '',
    language            TEXT NOT NULL DEFAULT 'en',
    is_active           BOOLEAN NOT NULL DEFAULT TRUE,
    render_js           BOOLEAN NOT NULL DEFAULT FALSE,
    last_collection     TIMESTAMPTZ,
    collection_interval INTEGER NOT NULL DEFAULT 300,
    max_articles        INTEGER NOT NULL DEFAULT 50,
    scrape_config       JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS articles (
    id              BIGSERIAL PRIMARY KEY,
    uuid            UUID NOT NULL UNIQUE,
    title           TEXT NOT NULL,
    content         TEXT NOT NULL DEFAULT '',
    summary         TEXT NOT NULL DEFAULT '',
    url             TEXT NOT NULL UNIQUE,
    source_id       BIGINT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
    author          TEXT NOT NULL DEFAULT '',
    published_at    TIMESTAMPTZ,
    collected_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    status          TEXT NOT NULL DEFAULT 'collected',
    priority        TEXT NOT NULL DEFAULT 'medium',
    sentiment_score DOUBLE PRECISION,
    sentiment_label TEXT NOT NULL DEFAULT '',
    relevance_score DOUBLE PRECISION,
    keywords        JSONB NOT NULL DEFAULT '[]'::jsonb,
    entities        JSONB NOT NULL DEFAULT '[]'::jsonb,
    views_count     INTEGER NOT NULL DEFAULT 0,
    shares_count    INTEGER NOT NULL DEFAULT 0,
    is_breaking     BOOLEAN NOT NULL DEFAULT FALSE,
    is_featured     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_articles_status_priority ON articles(status, priority);
CREATE INDEX IF NOT EXISTS idx_articles_collected ON articles(collected_at);
CREATE INDEX IF NOT EXISTS idx_articles_source_collected ON articles(source_id, collected_at);

CREATE TABLE IF NOT EXISTS article_categories (
    article_id  BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    PRIMARY KEY (article_id, category_id)
);

CREATE TABLE IF NOT EXISTS analyses (
    id              BIGSERIAL PRIMARY KEY,
    article_id      BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    analysis_type   TEXT NOT NULL,
    result          JSONB NOT NULL,
    confidence      DOUBLE PRECISION NOT NULL DEFAULT 0,
    processing_time DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (article_id, analysis_type)
);

CREATE TABLE IF NOT EXISTS alerts (
    id         BIGSERIAL PRIMARY KEY,
    title      TEXT NOT NULL,
    message    TEXT NOT NULL,
    alert_type TEXT NOT NULL,
    priority   TEXT NOT NULL DEFAULT 'medium',
    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
    is_read    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    read_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS collection_logs (
    id              BIGSERIAL PRIMARY KEY,
    source_id       BIGINT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
    status          TEXT NOT NULL,
    articles_found  INTEGER NOT NULL DEFAULT 0,
    articles_saved  INTEGER NOT NULL DEFAULT 0,
    errors          JSONB NOT NULL DEFAULT '[]'::jsonb,
    duration        DOUBLE PRECISION NOT NULL DEFAULT 0,
    started_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    completed_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_collection_logs_started ON collection_logs(started_at);

CREATE TABLE IF NOT EXISTS bot_subscribers (
    chat_id    BIGINT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store wraps a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to PostgreSQL and pings it.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &Store{
		pool:   pool,
		logger: logger.With("component", "store"),
	}, nil
}

// EnsureSchema creates all tables and indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	s.logger.Debug("schema ensured")
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
