// Package ingest receives raw charting alerts, relays them to the chat
// sink and persists their classified form. The notification is the one
// fatal step; storage and fan-out are best-effort and never change an
// already-committed notification outcome.
package ingest

import (
	"context"
	"time"

	"github.com/mdxcapital/capitalflow/internal/classifier"
	"github.com/mdxcapital/capitalflow/internal/logging"
	"github.com/mdxcapital/capitalflow/internal/messaging"
	"github.com/mdxcapital/capitalflow/internal/metrics"
	"github.com/mdxcapital/capitalflow/internal/models"
	"github.com/mdxcapital/capitalflow/internal/notify"
	"github.com/mdxcapital/capitalflow/internal/store"
)

// Result reports what happened to one alert submission.
type Result struct {
	// Notified is the primary outcome: whether the chat sink accepted
	// the message. When false, NotifyErr carries the sink's diagnostic.
	Notified  bool
	NotifyErr error

	// Persisted reports whether the classified record reached the store.
	// A false value never fails the ingestion.
	Persisted bool

	// Message is the extracted alert text that was relayed.
	Message string

	// Record is the classified record built from the extracted text.
	Record models.SignalRecord
}

// Service coordinates one ingestion: extract, notify, classify, append.
type Service struct {
	notifier  notify.Notifier
	store     store.Store
	publisher messaging.Publisher
	logger    *logging.Logger
}

// NewService creates an ingest service. publisher may be nil when NATS
// fan-out is disabled.
func NewService(notifier notify.Notifier, st store.Store, publisher messaging.Publisher, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		notifier:  notifier,
		store:     st,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest processes one raw alert body. At most one notification and one
// store append are attempted; no retries.
func (s *Service) Ingest(ctx context.Context, body []byte) Result {
	metrics.AlertsReceived.Inc()

	msg := ExtractMessage(body)
	s.logger.InfoContext(ctx, "received alert", "message", msg)

	result := Result{Message: msg}

	// Step one: relay to the chat sink. This outcome decides the
	// webhook response.
	if err := s.notifier.Send(ctx, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failure").Inc()
		s.logger.ErrorContext(ctx, "notification failed", logging.Error(err))
		result.NotifyErr = err
	} else {
		metrics.NotificationsTotal.WithLabelValues("success").Inc()
		result.Notified = true
	}

	// Step two: classify and persist, independent of the notification
	// outcome. Failures here are logged and swallowed.
	c := classifier.Classify(msg)
	rec := models.SignalRecord{
		ID:         models.NewSignalID(),
		Timestamp:  time.Now().UTC(),
		Message:    msg,
		SignalType: c.SignalType,
		Direction:  c.Direction,
		Timeframe:  c.Timeframe,
		Ticker:     c.Ticker,
	}
	result.Record = rec

	if err := s.store.Append(ctx, rec); err != nil {
		metrics.StoreAppendsTotal.WithLabelValues(s.store.Backend(), "failure").Inc()
		s.logger.WarnContext(ctx, "failed to store signal",
			logging.SignalID(rec.ID),
			logging.Backend(s.store.Backend()),
			logging.Error(err),
		)
	} else {
		metrics.StoreAppendsTotal.WithLabelValues(s.store.Backend(), "success").Inc()
		result.Persisted = true
		s.logger.InfoContext(ctx, "stored signal",
			logging.SignalID(rec.ID),
			logging.Ticker(rec.Ticker),
			"signal_type", string(rec.SignalType),
			"direction", string(rec.Direction),
			"timeframe", string(rec.Timeframe),
		)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSignal(ctx, rec); err != nil {
			s.logger.WarnContext(ctx, "failed to publish signal", logging.SignalID(rec.ID), logging.Error(err))
		}
	}

	return result
}
