// Package store persists classified signal records behind a
// backend-agnostic contract. Append enforces the backend's retention
// policy; List returns the retained set newest first. Backends report
// failures as plain errors so callers can absorb them: a broken store
// must never take down the notification path.
package store

import (
	"context"
	"errors"

	"github.com/mdxcapital/capitalflow/internal/models"
)

// Backend identifiers, also used as metric labels.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendNone     = "none"
)

// ErrNotConfigured is returned by Append when no storage backend is
// configured. List never returns it; an unconfigured store lists empty.
var ErrNotConfigured = errors.New("signal storage not configured")

// Store is the persistence contract shared by all backends.
type Store interface {
	// Append adds one record and enforces the backend's retention rule.
	Append(ctx context.Context, rec models.SignalRecord) error

	// List returns the currently retained records, newest first. An
	// unconfigured backend returns an empty slice, not an error.
	List(ctx context.Context) ([]models.SignalRecord, error)

	// Backend names the storage technology in use.
	Backend() string

	// Close releases backend resources.
	Close() error
}
