// Package messaging fans classified signals out on a NATS subject so
// co-located consumers (dashboards, paper-trading bots) can react
// without polling the delayed public feed. Publishing is best-effort
// and optional; the relay works identically without a broker.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mdxcapital/capitalflow/internal/models"
)

// Subject constants follow the pattern {domain}.{action}.
const (
	// SubjectSignalsIngested carries every successfully classified record.
	SubjectSignalsIngested = "capflow.signals.ingested"
)

// Publisher emits classified signal records to interested consumers.
type Publisher interface {
	PublishSignal(ctx context.Context, rec models.SignalRecord) error
	Close()
}

// NATSPublisher publishes records as JSON on SubjectSignalsIngested.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the given NATS server.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("capflow-relay"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) PublishSignal(ctx context.Context, rec models.SignalRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}
	if err := p.conn.Publish(SubjectSignalsIngested, data); err != nil {
		return fmt.Errorf("publish signal: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}
