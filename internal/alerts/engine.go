// Package alerts scans recent activity for conditions worth raising:
// breaking news, volume spikes, sentiment swings, and watched keywords.
package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

// Notifier pushes a raised alert to an external channel. The Telegram
// bot implements this.
type Notifier interface {
	Notify(ctx context.Context, alert *types.Alert) error
}

// Engine runs periodic alert scans.
type Engine struct {
	store     *store.Store
	cfg       *config.AlertsConfig
	metrics   *observability.Metrics
	notifiers []Notifier
	logger    *slog.Logger
}

// NewEngine wires an alert engine.
func NewEngine(st *store.Store, cfg *config.AlertsConfig, metrics *observability.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		store:   st,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "alerts"),
	}
}

// AddNotifier registers a push channel for raised alerts.
func (e *Engine) AddNotifier(n Notifier) {
	e.notifiers = append(e.notifiers, n)
}

// Run scans on the configured interval until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("alert engine starting",
		"scan_interval", e.cfg.ScanInterval,
		"window", e.cfg.Window,
	)
	ticker := time.NewTicker(e.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("alert engine stopped")
			return
		case <-ticker.C:
			e.Scan(ctx)
		}
	}
}

// Scan runs every detector once.
func (e *Engine) Scan(ctx context.Context) {
	now := time.Now()
	for _, check := range []func(context.Context, time.Time) (*types.Alert, error){
		e.checkBreaking,
		e.checkVolumeSpike,
		e.checkSentimentChange,
		e.checkWatchedKeywords,
	} {
		alert, err := check(ctx, now)
		if err != nil {
			e.logger.Error("alert check failed", "error", err)
			continue
		}
		if alert != nil {
			e.raise(ctx, alert)
		}
	}
}

// raise persists the alert and pushes it to notifiers, unless an alert
// of the same type was already raised within the window.
func (e *Engine) raise(ctx context.Context, alert *types.Alert) {
	recent, err := e.store.RecentAlertExists(ctx, alert.Type, e.cfg.Window)
	if err != nil {
		e.logger.Error("alert dedup check failed", "error", err)
		return
	}
	if recent {
		e.logger.Debug("suppressing repeat alert", "type", alert.Type)
		return
	}

	if _, err := e.store.InsertAlert(ctx, alert); err != nil {
		e.logger.Error("alert insert failed", "type", alert.Type, "error", err)
		return
	}
	e.metrics.AlertsRaised.Add(1)
	e.logger.Info("alert raised", "type", alert.Type, "title", alert.Title)

	for _, n := range e.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			e.logger.Warn("alert notification failed", "type", alert.Type, "error", err)
		}
	}
}

func (e *Engine) checkBreaking(ctx context.Context, now time.Time) (*types.Alert, error) {
	articles, err := e.store.BreakingArticles(ctx, e.cfg.Window, 5)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return &types.Alert{
		Title:    "Breaking news",
		Message:  fmt.Sprintf("%d breaking stories in the last %s, latest: %s", len(articles), e.cfg.Window, articles[0].Title),
		Type:     types.AlertBreakingNews,
		Priority: types.PriorityCritical,
	}, nil
}

func (e *Engine) checkVolumeSpike(ctx context.Context, now time.Time) (*types.Alert, error) {
	current, err := e.store.ArticleCountBetween(ctx, now.Add(-e.cfg.Window), now)
	if err != nil {
		return nil, err
	}
	previous, err := e.store.ArticleCountBetween(ctx, now.Add(-2*e.cfg.Window), now.Add(-e.cfg.Window))
	if err != nil {
		return nil, err
	}
	alert := DetectVolumeSpike(current, previous, e.cfg.SpikeFactor)
	return alert, nil
}

func (e *Engine) checkSentimentChange(ctx context.Context, now time.Time) (*types.Alert, error) {
	current, okCur, err := e.store.AvgSentimentBetween(ctx, now.Add(-e.cfg.Window), now)
	if err != nil {
		return nil, err
	}
	previous, okPrev, err := e.store.AvgSentimentBetween(ctx, now.Add(-2*e.cfg.Window), now.Add(-e.cfg.Window))
	if err != nil {
		return nil, err
	}
	if !okCur || !okPrev {
		return nil, nil
	}
	return DetectSentimentChange(current, previous, e.cfg.SentimentThreshold), nil
}

func (e *Engine) checkWatchedKeywords(ctx context.Context, now time.Time) (*types.Alert, error) {
	for _, kw := range e.cfg.WatchedKeywords {
		matches, _, err := e.store.ListArticles(ctx, store.ArticleFilter{
			Search:   kw,
			From:     now.Add(-e.cfg.Window),
			PageSize: 3,
		})
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return &types.Alert{
				Title:    fmt.Sprintf("Watched keyword: %s", kw),
				Message:  fmt.Sprintf("%q matched %s", kw, matches[0].Title),
				Type:     types.AlertKeywordMatch,
				Priority: types.PriorityHigh,
			}, nil
		}
	}
	return nil, nil
}

// DetectVolumeSpike returns an alert when the current window's article
// count exceeds the previous window by the spike factor. Tiny baselines
// are ignored to avoid firing on startup.
func DetectVolumeSpike(current, previous int, factor float64) *types.Alert {
	if previous < 5 {
		return nil
	}
	if float64(current) < float64(previous)*factor {
		return nil
	}
	return &types.Alert{
		Title:    "Article volume spike",
		Message:  fmt.Sprintf("collected %d articles vs %d in the previous window", current, previous),
		Type:     types.AlertVolumeSpike,
		Priority: types.PriorityHigh,
	}
}

// DetectSentimentChange returns an alert when average sentiment moved
// by more than threshold between windows.
func DetectSentimentChange(current, previous, threshold float64) *types.Alert {
	delta := current - previous
	if math.Abs(delta) < threshold {
		return nil
	}
	direction := "improved"
	priority := types.PriorityMedium
	if delta < 0 {
		direction = "deteriorated"
		priority = types.PriorityHigh
	}
	return &types.Alert{
		Title:    "Sentiment shift",
		Message:  fmt.Sprintf("average sentiment %s by %.2f (%.2f -> %.2f)", direction, math.Abs(delta), previous, current),
		Type:     types.AlertSentimentChange,
		Priority: priority,
	}
}

// MatchesKeyword reports whether an article mentions the keyword in
// its title or content.
func MatchesKeyword(a *types.Article, keyword string) bool {
	kw := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(a.Title), kw) ||
		strings.Contains(strings.ToLower(a.Content), kw)
}
