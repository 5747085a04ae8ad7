package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mdxcapital/capitalflow/internal/models"
)

// DefaultRetentionAge is the age-based retention horizon for the
// relational backend: rows older than 7 days are purged.
const DefaultRetentionAge = 7 * 24 * time.Hour

// PostgresStore persists one row per signal with an index on the
// ingestion timestamp. Retention: age-based, rows older than
// retentionAge are deleted opportunistically after each append.
// Per-row inserts make concurrent ingestion safe without locks; this is
// the preferred backend when a database is available.
type PostgresStore struct {
	pool         *pgxpool.Pool
	retentionAge time.Duration
}

const signalsSchema = `
CREATE TABLE IF NOT EXISTS signals (
	id          TEXT PRIMARY KEY,
	received_at TIMESTAMPTZ NOT NULL,
	message     TEXT NOT NULL,
	signal_type TEXT NOT NULL,
	direction   TEXT NOT NULL,
	timeframe   TEXT NOT NULL,
	ticker      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signals_received_at ON signals (received_at DESC);
`

// NewPostgresStore connects to PostgreSQL, verifies the connection and
// ensures the signals table exists.
func NewPostgresStore(ctx context.Context, connString string, retentionAge time.Duration) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, signalsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure signals schema: %w", err)
	}

	if retentionAge <= 0 {
		retentionAge = DefaultRetentionAge
	}

	return &PostgresStore{pool: pool, retentionAge: retentionAge}, nil
}

func (s *PostgresStore) Append(ctx context.Context, rec models.SignalRecord) error {
	query := `
		INSERT INTO signals (id, received_at, message, signal_type, direction, timeframe, ticker)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.Timestamp, rec.Message,
		string(rec.SignalType), string(rec.Direction), string(rec.Timeframe), rec.Ticker,
	)
	if err != nil {
		return fmt.Errorf("failed to insert signal: %w", err)
	}

	// The insert is already committed; a failed prune just leaves stale
	// rows for the next append to clean up.
	cutoff := time.Now().Add(-s.retentionAge)
	if _, err := s.pool.Exec(ctx, `DELETE FROM signals WHERE received_at < $1`, cutoff); err != nil {
		slog.Warn("failed to prune old signals", slog.String("error", err.Error()))
	}

	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.SignalRecord, error) {
	query := `
		SELECT id, received_at, message, signal_type, direction, timeframe, ticker
		FROM signals
		ORDER BY received_at DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}
	defer rows.Close()

	records := []models.SignalRecord{}
	for rows.Next() {
		var rec models.SignalRecord
		var signalType, direction, timeframe string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Message, &signalType, &direction, &timeframe, &rec.Ticker); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		rec.SignalType = models.SignalType(signalType)
		rec.Direction = models.Direction(direction)
		rec.Timeframe = models.Timeframe(timeframe)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signals: %w", err)
	}

	return records, nil
}

func (s *PostgresStore) Backend() string {
	return BackendPostgres
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
