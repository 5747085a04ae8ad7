package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdxcapital/capitalflow/internal/models"
	"github.com/mdxcapital/capitalflow/internal/store"
)

type brokenStore struct {
	store.MemoryStore
}

func (s *brokenStore) List(ctx context.Context) ([]models.SignalRecord, error) {
	return nil, errors.New("backend unreachable")
}

func seedRecord(t *testing.T, st store.Store, msg string, age time.Duration) models.SignalRecord {
	t.Helper()
	rec := models.SignalRecord{
		ID:         models.NewSignalID(),
		Timestamp:  time.Now().UTC().Add(-age),
		Message:    msg,
		SignalType: models.SignalTypeSignal,
		Direction:  models.DirectionNeutral,
		Timeframe:  models.TimeframeUnknown,
		Ticker:     "BTC",
	}
	require.NoError(t, st.Append(context.Background(), rec))
	return rec
}

func TestDelayedFeed_ExcludesFreshSignals(t *testing.T) {
	st := store.NewMemoryStore(0)
	seedRecord(t, st, "fresh", 1*time.Hour)

	svc := NewService(st, nil)
	signals, total := svc.DelayedFeed(context.Background(), 24*time.Hour, 20)

	assert.Empty(t, signals)
	assert.Zero(t, total)
}

func TestDelayedFeed_IncludesAgedSignals(t *testing.T) {
	st := store.NewMemoryStore(0)
	rec := seedRecord(t, st, "aged", 25*time.Hour)

	svc := NewService(st, nil)
	signals, total := svc.DelayedFeed(context.Background(), 24*time.Hour, 20)

	require.Len(t, signals, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, rec.ID, signals[0].ID)
	assert.Equal(t, rec.Message, signals[0].Message)
}

func TestDelayedFeed_LimitAndOrdering(t *testing.T) {
	st := store.NewMemoryStore(0)
	// Oldest appended first so the store holds newest first.
	for i := 0; i < 5; i++ {
		seedRecord(t, st, fmt.Sprintf("signal %d", i), time.Duration(48-i)*time.Hour)
	}

	svc := NewService(st, nil)
	signals, total := svc.DelayedFeed(context.Background(), 24*time.Hour, 3)

	assert.Equal(t, 5, total)
	require.Len(t, signals, 3)
	// Newest eligible first.
	assert.Equal(t, "signal 4", signals[0].Message)
	assert.Equal(t, "signal 2", signals[2].Message)
}

func TestDelayedFeed_MixedAges(t *testing.T) {
	st := store.NewMemoryStore(0)
	seedRecord(t, st, "too fresh", 23*time.Hour)
	aged := seedRecord(t, st, "just aged", 25*time.Hour)

	svc := NewService(st, nil)
	signals, total := svc.DelayedFeed(context.Background(), 24*time.Hour, 20)

	require.Len(t, signals, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, aged.ID, signals[0].ID)
}

func TestDelayedFeed_BrokenStoreYieldsEmptyFeed(t *testing.T) {
	svc := NewService(&brokenStore{}, nil)

	signals, total := svc.DelayedFeed(context.Background(), 24*time.Hour, 20)

	assert.NotNil(t, signals)
	assert.Empty(t, signals)
	assert.Zero(t, total)
}

func TestDelayedFeed_UnconfiguredStore(t *testing.T) {
	svc := NewService(store.NewNoopStore(), nil)

	signals, total := svc.DelayedFeed(context.Background(), 24*time.Hour, 20)

	assert.Empty(t, signals)
	assert.Zero(t, total)
	assert.False(t, svc.Configured())
}

func TestDelayedFeed_DefaultsApplied(t *testing.T) {
	st := store.NewMemoryStore(0)
	seedRecord(t, st, "aged", 25*time.Hour)

	svc := NewService(st, nil)
	signals, total := svc.DelayedFeed(context.Background(), 0, 0)

	require.Len(t, signals, 1)
	assert.Equal(t, 1, total)
}
