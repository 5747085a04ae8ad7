package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTripAndOrdering(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(ctx, testRecord(fmt.Sprintf("signal %d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "signal 2", records[0].Message)
	assert.Equal(t, "signal 0", records[2].Message)
}

func TestMemoryStore_CountRetention(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Append(ctx, testRecord(fmt.Sprintf("signal %d", i), base.Add(time.Duration(i)*time.Second))))
	}

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "signal 3", records[0].Message)
	assert.Equal(t, "signal 1", records[2].Message)
}

func TestMemoryStore_ListCopiesRecords(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, testRecord("original", time.Now().UTC())))

	records, err := s.List(ctx)
	require.NoError(t, err)
	records[0].Message = "mutated"

	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Message)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	s := NewMemoryStore(DefaultMaxRecords)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = s.Append(ctx, testRecord(fmt.Sprintf("signal %d", n), time.Now().UTC()))
		}(i)
	}
	wg.Wait()

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestNoopStore(t *testing.T) {
	s := NewNoopStore()
	ctx := context.Background()

	err := s.Append(ctx, testRecord("dropped", time.Now().UTC()))
	assert.ErrorIs(t, err, ErrNotConfigured)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Equal(t, BackendNone, s.Backend())
	assert.NoError(t, s.Close())
}
