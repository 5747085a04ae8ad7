package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mdxcapital/capitalflow/internal/models"
)

// DefaultMaxRecords is the count-based retention cap used by the blob
// backends: only the 100 most recently inserted records are kept.
const DefaultMaxRecords = 100

// DefaultSignalsKey is the Redis key holding the serialized record array.
const DefaultSignalsKey = "signals"

// errCorruptBlob marks a blob that was read successfully but does not
// decode, as opposed to a transport failure.
var errCorruptBlob = errors.New("corrupt signals blob")

// RedisStore keeps the whole retained set as one JSON array under a
// single key, newest first. Retention: count-based, most recent
// maxRecords kept.
//
// Append is a read-modify-write cycle with no locking. Concurrent
// appends can race and the last writer wins; signals are advisory, so
// losing one under contention is accepted rather than serialized.
type RedisStore struct {
	client     *redis.Client
	key        string
	maxRecords int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL, key string, maxRecords int) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	if key == "" {
		key = DefaultSignalsKey
	}
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}

	return &RedisStore{
		client:     client,
		key:        key,
		maxRecords: maxRecords,
	}, nil
}

func (s *RedisStore) Append(ctx context.Context, rec models.SignalRecord) error {
	records, err := s.load(ctx)
	switch {
	case errors.Is(err, errCorruptBlob):
		// Corrupt blob: start a fresh window rather than wedging the
		// store. The retained set is a rolling cache, not a ledger.
		records = nil
	case err != nil:
		// A read that failed in transit says nothing about the stored
		// set; overwriting here would discard the retained history.
		return err
	}

	records = append([]models.SignalRecord{rec}, records...)
	if len(records) > s.maxRecords {
		records = records[:s.maxRecords]
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write signals: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.SignalRecord, error) {
	return s.load(ctx)
}

func (s *RedisStore) load(ctx context.Context) ([]models.SignalRecord, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return []models.SignalRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}

	var records []models.SignalRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptBlob, err)
	}
	return records, nil
}

func (s *RedisStore) Backend() string {
	return BackendRedis
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
