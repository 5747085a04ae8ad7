package cli

import (
	"context"
	"fmt"

	"github.com/mdxcapital/capitalflow/internal/calendar"
	"github.com/mdxcapital/capitalflow/internal/config"
	"github.com/mdxcapital/capitalflow/internal/logging"
	"github.com/mdxcapital/capitalflow/internal/market"
	"github.com/mdxcapital/capitalflow/internal/notify"
	"github.com/mdxcapital/capitalflow/internal/store"
)

// buildStore constructs the signal store named by the configuration.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case store.BackendRedis:
		return store.NewRedisStore(cfg.Storage.RedisURL, cfg.Storage.RedisKey, cfg.Storage.MaxRecords)
	case store.BackendPostgres:
		return store.NewPostgresStore(ctx, cfg.Storage.PostgresURL, cfg.Storage.RetentionAge)
	case store.BackendMemory:
		return store.NewMemoryStore(cfg.Storage.MaxRecords), nil
	case store.BackendNone, "":
		return store.NewNoopStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// buildNotifier returns the Telegram notifier when credentials are
// present, falling back to the log notifier for local runs.
func buildNotifier(cfg *config.Config, logger *logging.Logger) notify.Notifier {
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		return notify.NewTelegramNotifier(cfg.Telegram.APIBase, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}
	logger.InfoContext(context.Background(), "telegram credentials missing, notifications go to the log")
	return notify.NewLogNotifier(nil)
}

func buildCalendarClient(cfg *config.Config) *calendar.Client {
	return calendar.NewClient(cfg.Digest.CalendarURL, cfg.Digest.CacheTTL, cfg.Market.RequestTimeout)
}

func buildFearGreedClient(cfg *config.Config) *market.FearGreedClient {
	return market.NewFearGreedClient(cfg.Market.FearGreedURL, cfg.Market.FearGreedCache, cfg.Market.RequestTimeout)
}
