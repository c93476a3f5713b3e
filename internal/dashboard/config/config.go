package config

import (
	"time"

	"stock-order-dashboard/pkg/config"
)

// Remote holds the configuration for the remote order service.
type Remote struct {
	BaseURL             string        `mapstructure:"base_url"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CandleCacheTTL      time.Duration `mapstructure:"candle_cache_ttl"`
}

// Poll holds the refresh loop configuration.
type Poll struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Defaults holds the initial user settings.
type Defaults struct {
	Telegram       bool    `mapstructure:"telegram"`
	Sound          bool    `mapstructure:"sound"`
	ColorIntensity float64 `mapstructure:"color_intensity"`
}

// Config holds the full configuration for the dashboard service.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	API      config.API    `mapstructure:"api"`
	Remote   Remote        `mapstructure:"remote"`
	Poll     Poll          `mapstructure:"poll"`
	Telegram Telegram      `mapstructure:"telegram"`
	Defaults Defaults      `mapstructure:"defaults"`
}

// Load loads the dashboard configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 25 * time.Second
	}
	if cfg.Remote.RequestTimeout <= 0 {
		cfg.Remote.RequestTimeout = 10 * time.Second
	}
	if cfg.Remote.MaxRequestPerMinute <= 0 {
		cfg.Remote.MaxRequestPerMinute = 120
	}
	if cfg.Remote.CandleCacheTTL <= 0 {
		cfg.Remote.CandleCacheTTL = time.Minute
	}
	if cfg.Defaults.ColorIntensity <= 0 {
		cfg.Defaults.ColorIntensity = 2.0
	}

	return &cfg, nil
}
