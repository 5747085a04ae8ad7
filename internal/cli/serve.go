package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdxcapital/capitalflow/internal/calendar"
	"github.com/mdxcapital/capitalflow/internal/feed"
	"github.com/mdxcapital/capitalflow/internal/handlers"
	"github.com/mdxcapital/capitalflow/internal/ingest"
	"github.com/mdxcapital/capitalflow/internal/logging"
	"github.com/mdxcapital/capitalflow/internal/market"
	"github.com/mdxcapital/capitalflow/internal/messaging"
	"github.com/mdxcapital/capitalflow/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the signal relay server",
	Long:  `Starts the HTTP server: webhook ingestion, delayed signal feed, market proxies and the digest cron endpoint.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "override listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer st.Close()

	notifier := buildNotifier(cfg, logger)

	var publisher messaging.Publisher
	if cfg.NATS.Enabled {
		pub, err := messaging.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			// Fan-out is best-effort; the relay runs without a broker.
			logger.WarnContext(ctx, "NATS unavailable, signal fan-out disabled", logging.Error(err))
		} else {
			publisher = pub
			defer pub.Close()
		}
	}

	ingestSvc := ingest.NewService(notifier, st, publisher, logger)
	feedSvc := feed.NewService(st, logger)

	marketHandler := handlers.NewMarketHandler(
		buildFearGreedClient(cfg),
		market.NewLongShortClient(cfg.Market.OKXRatioURL, cfg.Market.BinanceRatioURL, cfg.Market.LongShortCache, cfg.Market.RequestTimeout),
	)
	calendarClient := buildCalendarClient(cfg)
	digestHandler := handlers.NewDigestHandler(
		calendar.NewService(calendarClient, notifier, logger),
		cfg.Digest.CronSecret,
		logger,
	)

	router := server.NewRouter(server.RouterConfig{
		Webhook:  handlers.NewWebhookHandler(ingestSvc, notifier, cfg.Webhook.Secret, st.Backend(), logger),
		Signals:  handlers.NewSignalsHandler(feedSvc, time.Duration(cfg.Feed.DelayHours)*time.Hour, cfg.Feed.Limit),
		Market:   marketHandler,
		Calendar: handlers.NewCalendarHandler(calendarClient),
		Digest:   digestHandler,
		Health:   handlers.NewHealthHandler(st),
	})

	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	if serveAddr != "" {
		listenAddr = serveAddr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "relay listening",
			"addr", listenAddr,
			logging.Backend(st.Backend()),
			"nats", publisher != nil,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-shutdownCtx.Done():
	}

	logger.InfoContext(ctx, "shutdown signal received")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(timeoutCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
