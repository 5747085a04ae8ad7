package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Feed     FeedConfig     `mapstructure:"feed"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Market   MarketConfig   `mapstructure:"market"`
	Digest   DigestConfig   `mapstructure:"digest"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// TelegramConfig is the notification sink. APIBase is overridable so
// tests can point at a local stub.
type TelegramConfig struct {
	APIBase  string `mapstructure:"api_base"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type WebhookConfig struct {
	// Secret, when set, must accompany every alert submission
	// (Authorization bearer or ?secret= query parameter).
	Secret string `mapstructure:"secret"`
}

type StorageConfig struct {
	// Backend selects the signal store: redis, postgres, memory or none.
	Backend     string `mapstructure:"backend"`
	RedisURL    string `mapstructure:"redis_url"`
	RedisKey    string `mapstructure:"redis_key"`
	PostgresURL string `mapstructure:"postgres_url"`

	// MaxRecords is the count-based retention cap (redis/memory backends).
	MaxRecords int `mapstructure:"max_records"`
	// RetentionAge is the age-based retention horizon (postgres backend).
	RetentionAge time.Duration `mapstructure:"retention_age"`
}

type FeedConfig struct {
	DelayHours int `mapstructure:"delay_hours"`
	Limit      int `mapstructure:"limit"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type MarketConfig struct {
	FearGreedURL    string        `mapstructure:"fear_greed_url"`
	OKXRatioURL     string        `mapstructure:"okx_ratio_url"`
	BinanceRatioURL string        `mapstructure:"binance_ratio_url"`
	FearGreedCache  time.Duration `mapstructure:"fear_greed_cache"`
	LongShortCache  time.Duration `mapstructure:"long_short_cache"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type DigestConfig struct {
	CronSecret  string        `mapstructure:"cron_secret"`
	CalendarURL string        `mapstructure:"calendar_url"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type ReportConfig struct {
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	Model           string `mapstructure:"model"`
	ScreenshotDir   string `mapstructure:"screenshot_dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("storage.backend", "none")
	v.SetDefault("storage.redis_key", "signals")
	v.SetDefault("storage.max_records", 100)
	v.SetDefault("storage.retention_age", "168h")
	v.SetDefault("feed.delay_hours", 24)
	v.SetDefault("feed.limit", 20)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("market.fear_greed_url", "https://api.alternative.me/fng/?limit=1")
	v.SetDefault("market.okx_ratio_url", "https://www.okx.com/api/v5/rubik/stat/contracts/long-short-account-ratio")
	v.SetDefault("market.binance_ratio_url", "https://fapi.binance.com/futures/data/globalLongShortAccountRatio")
	v.SetDefault("market.fear_greed_cache", "1h")
	v.SetDefault("market.long_short_cache", "1m")
	v.SetDefault("market.request_timeout", "10s")
	v.SetDefault("digest.calendar_url", "https://nfs.faireconomy.media/ff_calendar_thisweek.json")
	v.SetDefault("digest.cache_ttl", "1h")
	v.SetDefault("report.model", "claude-sonnet-4-20250514")
	v.SetDefault("report.screenshot_dir", "screenshots")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/capflow")
	}

	// Environment variables override
	v.SetEnvPrefix("CAPFLOW")
	v.AutomaticEnv()

	// Unprefixed env names from earlier deployments keep working
	// alongside the CAPFLOW_ prefixed ones.
	_ = v.BindEnv("telegram.bot_token", "CAPFLOW_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "CAPFLOW_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("storage.redis_url", "CAPFLOW_STORAGE_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("storage.postgres_url", "CAPFLOW_STORAGE_POSTGRES_URL", "DATABASE_URL")
	_ = v.BindEnv("digest.cron_secret", "CAPFLOW_DIGEST_CRON_SECRET", "CRON_SECRET")
	_ = v.BindEnv("report.anthropic_api_key", "CAPFLOW_REPORT_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("webhook.secret", "CAPFLOW_WEBHOOK_SECRET", "WEBHOOK_SECRET")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
