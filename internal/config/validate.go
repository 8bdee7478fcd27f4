package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration values for consistency.
func Validate(cfg *Config) error {
	var problems []string

	if cfg.Collector.Concurrency < 1 {
		problems = append(problems, "collector.concurrency must be >= 1")
	}
	if cfg.Collector.ScanInterval <= 0 {
		problems = append(problems, "collector.scan_interval must be positive")
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		problems = append(problems, "fetcher.request_timeout must be positive")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		problems = append(problems, "fetcher.max_body_size must be positive")
	}
	if cfg.Processor.Workers < 1 {
		problems = append(problems, "processor.workers must be >= 1")
	}
	if cfg.Processor.PositiveThreshold <= cfg.Processor.NegativeThreshold {
		problems = append(problems, "processor.positive_threshold must exceed negative_threshold")
	}
	if cfg.Storage.DSN == "" {
		problems = append(problems, "storage.dsn is required")
	}
	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		problems = append(problems, "api.port must be a valid port")
	}
	if cfg.API.PageSize < 1 || cfg.API.PageSize > cfg.API.MaxPageSize {
		problems = append(problems, "api.page_size must be between 1 and api.max_page_size")
	}
	if cfg.Bot.Enabled && cfg.Bot.Token == "" {
		problems = append(problems, "bot.token is required when bot.enabled")
	}
	if cfg.Alerts.SpikeFactor <= 1 {
		problems = append(problems, "alerts.spike_factor must be > 1")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug|info|warn|error", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of text|json", cfg.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
