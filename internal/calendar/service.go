package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/mdxcapital/capitalflow/internal/logging"
	"github.com/mdxcapital/capitalflow/internal/metrics"
	"github.com/mdxcapital/capitalflow/internal/notify"
)

// Service wires the calendar client to the Telegram notifier for the
// scheduled daily digest.
type Service struct {
	client   *Client
	notifier notify.Notifier
	logger   *logging.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewService(client *Client, notifier notify.Notifier, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		client:   client,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SetNow overrides the clock used to window today's events, pinning the
// digest to a fixed day.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// RunResult summarizes a digest run for the cron response body.
type RunResult struct {
	EventCount int      `json:"eventCount"`
	TimeSlots  int      `json:"timeSlots"`
	Events     []string `json:"events"`
	Message    string   `json:"message,omitempty"`
	Sent       bool     `json:"sent"`
}

// Run builds today's digest and, when send is true, delivers it. A day
// with no remaining events is a successful no-op.
func (s *Service) Run(ctx context.Context, send bool) (RunResult, error) {
	events, err := s.client.HighImpactEvents(ctx)
	if err != nil {
		metrics.DigestsSent.WithLabelValues("error").Inc()
		return RunResult{}, fmt.Errorf("load calendar events: %w", err)
	}

	today := TodayEvents(events, s.now())
	if len(today) == 0 {
		s.logger.InfoContext(ctx, "no high-impact events remaining today")
		metrics.DigestsSent.WithLabelValues("empty").Inc()
		return RunResult{Events: []string{}, Message: "No upcoming high-impact events today"}, nil
	}

	digest := BuildDigest(today)
	titles := make([]string, len(today))
	for i, e := range today {
		titles[i] = e.Title
	}

	result := RunResult{
		EventCount: len(today),
		TimeSlots:  digest.TimeSlots,
		Events:     titles,
		Message:    digest.Message,
	}

	if !send {
		return result, nil
	}

	if err := s.notifier.Send(ctx, digest.Message); err != nil {
		metrics.DigestsSent.WithLabelValues("failure").Inc()
		return result, fmt.Errorf("send digest: %w", err)
	}

	metrics.DigestsSent.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "economic digest sent",
		logging.Component("calendar"),
		"events", len(today),
		"time_slots", digest.TimeSlots,
	)
	result.Sent = true
	return result, nil
}
