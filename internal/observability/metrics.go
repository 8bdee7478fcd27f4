// Package observability exposes operational counters over a
// Prometheus-compatible endpoint.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for the platform.
type Metrics struct {
	// Collection metrics
	CollectionsTotal  atomic.Int64
	CollectionsFailed atomic.Int64
	FetchesTotal      atomic.Int64
	FetchesFailed     atomic.Int64

	// Article metrics
	ArticlesFound     atomic.Int64
	ArticlesSaved     atomic.Int64
	ArticlesDuplicate atomic.Int64
	ArticlesProcessed atomic.Int64
	ProcessingErrors  atomic.Int64

	// Pipeline metrics
	ActiveWorkers atomic.Int32
	QueueDepth    atomic.Int64

	// Alert and bot metrics
	AlertsRaised  atomic.Int64
	BotMessages   atomic.Int64
	BotBroadcasts atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"oraclo_collections_total", "Total collection runs", m.CollectionsTotal.Load()},
		{"oraclo_collections_failed_total", "Total failed collection runs", m.CollectionsFailed.Load()},
		{"oraclo_fetches_total", "Total HTTP fetches", m.FetchesTotal.Load()},
		{"oraclo_fetches_failed_total", "Total failed HTTP fetches", m.FetchesFailed.Load()},
		{"oraclo_articles_found_total", "Total articles found by collectors", m.ArticlesFound.Load()},
		{"oraclo_articles_saved_total", "Total articles saved", m.ArticlesSaved.Load()},
		{"oraclo_articles_duplicate_total", "Total duplicate articles skipped", m.ArticlesDuplicate.Load()},
		{"oraclo_articles_processed_total", "Total articles enriched", m.ArticlesProcessed.Load()},
		{"oraclo_processing_errors_total", "Total enrichment failures", m.ProcessingErrors.Load()},
		{"oraclo_active_workers", "Currently active workers", int64(m.ActiveWorkers.Load())},
		{"oraclo_queue_depth", "Current processing queue depth", m.QueueDepth.Load()},
		{"oraclo_alerts_raised_total", "Total alerts raised", m.AlertsRaised.Load()},
		{"oraclo_bot_messages_total", "Total bot messages handled", m.BotMessages.Load()},
		{"oraclo_bot_broadcasts_total", "Total bot broadcast deliveries", m.BotBroadcasts.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server in the background.
func (m *Metrics) StartServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
}

// Snapshot returns all counters as a map for the stats endpoint.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"collections_total":  m.CollectionsTotal.Load(),
		"collections_failed": m.CollectionsFailed.Load(),
		"fetches_total":      m.FetchesTotal.Load(),
		"fetches_failed":     m.FetchesFailed.Load(),
		"articles_found":     m.ArticlesFound.Load(),
		"articles_saved":     m.ArticlesSaved.Load(),
		"articles_duplicate": m.ArticlesDuplicate.Load(),
		"articles_processed": m.ArticlesProcessed.Load(),
		"processing_errors":  m.ProcessingErrors.Load(),
		"active_workers":     int64(m.ActiveWorkers.Load()),
		"queue_depth":        m.QueueDepth.Load(),
		"alerts_raised":      m.AlertsRaised.Load(),
		"bot_messages":       m.BotMessages.Load(),
	}
}
