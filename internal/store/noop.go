package store

import (
	"context"

	"github.com/mdxcapital/capitalflow/internal/models"
)

// NoopStore stands in when no storage backend is configured. Appends
// report ErrNotConfigured (which the ingestor swallows) and List returns
// an empty set so the feed degrades to empty rather than erroring.
type NoopStore struct{}

func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (s *NoopStore) Append(ctx context.Context, rec models.SignalRecord) error {
	return ErrNotConfigured
}

func (s *NoopStore) List(ctx context.Context) ([]models.SignalRecord, error) {
	return []models.SignalRecord{}, nil
}

func (s *NoopStore) Backend() string {
	return BackendNone
}

func (s *NoopStore) Close() error {
	return nil
}
