package store

import (
	"context"
	"sync"

	"github.com/mdxcapital/capitalflow/internal/models"
)

// MemoryStore keeps records in process memory, newest first, trimmed to a
// fixed count. It backs tests and single-instance deployments that want
// the relay without external storage. Retention: count-based, most recent
// maxRecords kept.
type MemoryStore struct {
	mu         sync.RWMutex
	records    []models.SignalRecord
	maxRecords int
}

func NewMemoryStore(maxRecords int) *MemoryStore {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &MemoryStore{
		records:    make([]models.SignalRecord, 0, maxRecords),
		maxRecords: maxRecords,
	}
}

func (s *MemoryStore) Append(ctx context.Context, rec models.SignalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]models.SignalRecord{rec}, s.records...)
	if len(s.records) > s.maxRecords {
		s.records = s.records[:s.maxRecords]
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.SignalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SignalRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) Backend() string {
	return BackendMemory
}

func (s *MemoryStore) Close() error {
	return nil
}
