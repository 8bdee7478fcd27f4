// Package bot runs the Telegram interface: commands for subscribers
// and push broadcasts for raised alerts.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/store"
	"github.com/oraclo-news/oraclo/internal/types"
)

const defaultAPIBase = "https://api.telegram.org"

// Bot long-polls the Telegram Bot API and answers commands.
type Bot struct {
	token       string
	apiBase     string
	pollTimeout int
	store       *store.Store
	metrics     *observability.Metrics
	http        *http.Client
	logger      *slog.Logger
	offset      int64
}

// New wires a bot. It returns types.ErrNotConfigured without a token.
func New(cfg *config.BotConfig, st *store.Store, metrics *observability.Metrics, logger *slog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, types.ErrNotConfigured
	}
	// Telegram's getUpdates timeout parameter is in whole seconds.
	pollTimeout := int(cfg.PollTimeout / time.Second)
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Bot{
		token:       cfg.Token,
		apiBase:     defaultAPIBase,
		pollTimeout: pollTimeout,
		store:       st,
		metrics:     metrics,
		http:        &http.Client{Timeout: time.Duration(pollTimeout+10) * time.Second},
		logger:      logger.With("component", "bot"),
	}, nil
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// Run long-polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.logger.Info("bot polling started")
	for {
		if ctx.Err() != nil {
			b.logger.Info("bot stopped")
			return
		}
		updates, err := b.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Error("poll failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= b.offset {
				b.offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			b.metrics.BotMessages.Add(1)
			b.HandleCommand(ctx, u.Message.Chat.ID, u.Message.Text)
		}
	}
}

func (b *Bot) getUpdates(ctx context.Context) ([]update, error) {
	raw, err := b.call(ctx, "getUpdates", map[string]any{
		"offset":  b.offset,
		"timeout": b.pollTimeout,
	})
	if err != nil {
		return nil, err
	}
	var updates []update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

// HandleCommand dispatches one incoming message.
func (b *Bot) HandleCommand(ctx context.Context, chatID int64, text string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	cmd, _, _ = strings.Cut(cmd, "@") // strip bot mention in groups
	arg = strings.TrimSpace(arg)

	var reply string
	switch cmd {
	case "/start", "/help":
		reply = helpText
	case "/latest":
		reply = b.latestReply(ctx)
	case "/breaking":
		reply = b.breakingReply(ctx)
	case "/trending":
		reply = b.trendingReply(ctx)
	case "/sentiment":
		reply = b.sentimentReply(ctx, arg)
	case "/stats":
		reply = b.statsReply(ctx)
	case "/subscribe":
		reply = b.subscribeReply(ctx, chatID)
	case "/unsubscribe":
		reply = b.unsubscribeReply(ctx, chatID)
	default:
		reply = "Unknown command. Try /help."
	}

	if err := b.SendMessage(ctx, chatID, reply); err != nil {
		b.logger.Warn("reply failed", "chat_id", chatID, "error", err)
	}
}

const helpText = `Oraclo news bot commands:
/latest - most recent articles
/breaking - breaking news
/trending - trending keywords
/sentiment [positive|negative] - recent articles by tone
/stats - platform statistics
/subscribe - receive alert broadcasts
/unsubscribe - stop alert broadcasts`

func (b *Bot) latestReply(ctx context.Context) string {
	articles, _, err := b.store.ListArticles(ctx, store.ArticleFilter{PageSize: 5})
	if err != nil {
		return "Could not load articles right now."
	}
	if len(articles) == 0 {
		return "No articles collected yet."
	}
	return formatArticleList("Latest articles", articles)
}

func (b *Bot) breakingReply(ctx context.Context) string {
	articles, err := b.store.BreakingArticles(ctx, 24*time.Hour, 5)
	if err != nil {
		return "Could not load breaking news right now."
	}
	if len(articles) == 0 {
		return "No breaking news in the last 24 hours."
	}
	return formatArticleList("Breaking news", articles)
}

func (b *Bot) trendingReply(ctx context.Context) string {
	terms, err := b.store.TrendingKeywords(ctx, 24*time.Hour, 10)
	if err != nil {
		return "Could not load trends right now."
	}
	if len(terms) == 0 {
		return "Not enough data for trends yet."
	}
	var sb strings.Builder
	sb.WriteString("Trending keywords (24h):\n")
	for i, t := range terms {
		fmt.Fprintf(&sb, "%d. %s (%d)\n", i+1, t.Term, t.Count)
	}
	return sb.String()
}

func (b *Bot) sentimentReply(ctx context.Context, tone string) string {
	if tone != "positive" && tone != "negative" && tone != "neutral" {
		tone = "negative"
	}
	articles, _, err := b.store.ListArticles(ctx, store.ArticleFilter{
		Sentiment: tone,
		PageSize:  5,
		OrderBy:   "-collected_at",
	})
	if err != nil {
		return "Could not load articles right now."
	}
	if len(articles) == 0 {
		return fmt.Sprintf("No %s articles found recently.", tone)
	}
	header := strings.ToUpper(tone[:1]) + tone[1:] + " coverage"
	return formatArticleList(header, articles)
}

func (b *Bot) statsReply(ctx context.Context) string {
	stats, err := b.store.GetStats(ctx, 24*time.Hour)
	if err != nil {
		return "Could not load statistics right now."
	}
	return fmt.Sprintf(
		"Platform stats:\nArticles: %d (%d today)\nBreaking (24h): %d\nSources: %d active of %d\nAvg sentiment: %.2f\nUnread alerts: %d",
		stats.TotalArticles, stats.ArticlesToday, stats.BreakingCount,
		stats.Sources.ActiveSources, stats.Sources.TotalSources,
		stats.AverageSentiment, stats.UnreadAlerts,
	)
}

func (b *Bot) subscribeReply(ctx context.Context, chatID int64) string {
	if err := b.store.AddSubscriber(ctx, chatID); err != nil {
		return "Subscription failed, try again later."
	}
	return "Subscribed. You will receive alert broadcasts."
}

func (b *Bot) unsubscribeReply(ctx context.Context, chatID int64) string {
	if err := b.store.RemoveSubscriber(ctx, chatID); err != nil {
		return "Unsubscribe failed, try again later."
	}
	return "Unsubscribed. No more broadcasts."
}

func formatArticleList(header string, articles []*types.Article) string {
	var sb strings.Builder
	sb.WriteString(header + ":\n")
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s\n%s\n", i+1, a.Title, a.URL)
	}
	return sb.String()
}

// SendMessage sends a plain-text message to one chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := b.call(ctx, "sendMessage", map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	})
	return err
}

// Notify implements the alert Notifier: broadcasts the alert to every
// subscriber.
func (b *Bot) Notify(ctx context.Context, alert *types.Alert) error {
	subscribers, err := b.store.ListSubscribers(ctx)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("[%s] %s\n%s", strings.ToUpper(string(alert.Priority)), alert.Title, alert.Message)
	for _, chatID := range subscribers {
		if err := b.SendMessage(ctx, chatID, text); err != nil {
			b.logger.Warn("broadcast delivery failed", "chat_id", chatID, "error", err)
			continue
		}
		b.metrics.BotBroadcasts.Add(1)
	}
	return nil
}

// call posts one Bot API method and returns the raw result.
func (b *Bot) call(ctx context.Context, method string, payload map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", b.apiBase, b.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var api apiResponse
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !api.OK {
		return nil, fmt.Errorf("telegram API error on %s: %s", method, api.Description)
	}
	return api.Result, nil
}
