// Package feed serves the delayed public view of stored signals. The
// delay is a fairness mechanism: no public consumer sees a signal less
// than the configured horizon old, however fresh the store is.
package feed

import (
	"context"
	"time"

	"github.com/mdxcapital/capitalflow/internal/logging"
	"github.com/mdxcapital/capitalflow/internal/metrics"
	"github.com/mdxcapital/capitalflow/internal/models"
	"github.com/mdxcapital/capitalflow/internal/store"
)

// Defaults for the public feed.
const (
	DefaultDelayHours = 24
	DefaultLimit      = 20
)

// Service reads and filters the retained signal set. It never mutates
// records and never returns an error to its HTTP callers: a broken or
// unconfigured store degrades to an empty feed.
type Service struct {
	store  store.Store
	logger *logging.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewService(st store.Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// DelayedFeed returns at most limit records whose timestamp is older
// than now-delay, newest first, plus the total number of eligible
// records. Store failures yield an empty feed.
func (s *Service) DelayedFeed(ctx context.Context, delay time.Duration, limit int) ([]models.SignalRecord, int) {
	if delay <= 0 {
		delay = DefaultDelayHours * time.Hour
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	metrics.FeedRequests.Inc()

	records, err := s.store.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read signals for feed", logging.Error(err))
		metrics.FeedSignalsReturned.Observe(0)
		return []models.SignalRecord{}, 0
	}

	cutoff := s.now().Add(-delay)
	eligible := make([]models.SignalRecord, 0, len(records))
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			eligible = append(eligible, rec)
		}
	}

	total := len(eligible)
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}

	metrics.FeedSignalsReturned.Observe(float64(len(eligible)))
	return eligible, total
}

// Configured reports whether a real storage backend sits behind the feed.
func (s *Service) Configured() bool {
	return s.store.Backend() != store.BackendNone
}
