package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("ORACLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("oraclo")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".oraclo"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("collector.concurrency", cfg.Collector.Concurrency)
	v.SetDefault("collector.scan_interval", cfg.Collector.ScanInterval)
	v.SetDefault("collector.politeness_delay", cfg.Collector.PolitenessDelay)
	v.SetDefault("collector.max_retries", cfg.Collector.MaxRetries)
	v.SetDefault("collector.retry_delay", cfg.Collector.RetryDelay)
	v.SetDefault("collector.dedup_ttl", cfg.Collector.DedupTTL)

	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)
	v.SetDefault("fetcher.browser_enabled", cfg.Fetcher.BrowserEnabled)
	v.SetDefault("fetcher.browser_pages", cfg.Fetcher.BrowserPages)

	v.SetDefault("processor.workers", cfg.Processor.Workers)
	v.SetDefault("processor.batch_size", cfg.Processor.BatchSize)
	v.SetDefault("processor.dequeue_timeout", cfg.Processor.DequeueTimeout)
	v.SetDefault("processor.max_keywords", cfg.Processor.MaxKeywords)
	v.SetDefault("processor.min_keyword_length", cfg.Processor.MinKeywordLength)
	v.SetDefault("processor.positive_threshold", cfg.Processor.PositiveThreshold)
	v.SetDefault("processor.negative_threshold", cfg.Processor.NegativeThreshold)

	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.max_conns", cfg.Storage.MaxConns)
	v.SetDefault("storage.connect_timeout", cfg.Storage.ConnectTimeout)

	v.SetDefault("queue.addr", cfg.Queue.Addr)
	v.SetDefault("queue.password", cfg.Queue.Password)
	v.SetDefault("queue.db", cfg.Queue.DB)

	v.SetDefault("api.port", cfg.API.Port)
	v.SetDefault("api.page_size", cfg.API.PageSize)
	v.SetDefault("api.max_page_size", cfg.API.MaxPageSize)
	v.SetDefault("api.read_timeout", cfg.API.ReadTimeout)

	v.SetDefault("bot.enabled", cfg.Bot.Enabled)
	v.SetDefault("bot.token", cfg.Bot.Token)
	v.SetDefault("bot.poll_timeout", cfg.Bot.PollTimeout)

	v.SetDefault("alerts.enabled", cfg.Alerts.Enabled)
	v.SetDefault("alerts.scan_interval", cfg.Alerts.ScanInterval)
	v.SetDefault("alerts.window", cfg.Alerts.Window)
	v.SetDefault("alerts.spike_factor", cfg.Alerts.SpikeFactor)
	v.SetDefault("alerts.sentiment_threshold", cfg.Alerts.SentimentThreshold)
	v.SetDefault("alerts.watched_keywords", cfg.Alerts.WatchedKeywords)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
