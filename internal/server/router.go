// Package server assembles the HTTP surface and runs it with graceful
// shutdown.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdxcapital/capitalflow/internal/handlers"
	"github.com/mdxcapital/capitalflow/internal/middleware"
)

// RouterConfig holds the handlers backing each route group. Market,
// Calendar and Digest are optional; their routes are registered only
// when present.
type RouterConfig struct {
	Webhook  *handlers.WebhookHandler
	Signals  *handlers.SignalsHandler
	Market   *handlers.MarketHandler
	Calendar *handlers.CalendarHandler
	Digest   *handlers.DigestHandler
	Health   *handlers.HealthHandler
}

// NewRouter constructs the ServeMux with all API routes registered,
// wrapped in request-ID and CORS middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/webhook", cfg.Webhook.Handle)
	mux.HandleFunc("/api/signals", cfg.Signals.Handle)

	if cfg.Market != nil {
		mux.HandleFunc("/api/fear-greed", cfg.Market.FearGreed)
		mux.HandleFunc("/api/long-short-ratio", cfg.Market.LongShortRatio)
	}
	if cfg.Calendar != nil {
		mux.HandleFunc("/api/economic-calendar", cfg.Calendar.Handle)
	}
	if cfg.Digest != nil {
		mux.HandleFunc("/api/cron/economic-alerts", cfg.Digest.Handle)
	}

	mux.HandleFunc("/healthz", cfg.Health.Health)
	mux.HandleFunc("/readyz", cfg.Health.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	cors := middleware.CORS(middleware.PublicCORS())
	return middleware.RequestID(cors(mux))
}
