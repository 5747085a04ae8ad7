package models

import (
	"time"

	"github.com/google/uuid"
)

// SignalType categorizes a classified alert.
type SignalType string

const (
	SignalTypeSignal       SignalType = "signal"
	SignalTypeFullSend     SignalType = "full_send"
	SignalTypeConfluence   SignalType = "confluence"
	SignalTypeManipulation SignalType = "manipulation"
	SignalTypeDivergence   SignalType = "divergence"
	SignalTypeFlip         SignalType = "flip"
)

// Direction is the market bias read from an alert.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Timeframe is the chart timeframe an alert refers to.
type Timeframe string

const (
	Timeframe5m      Timeframe = "5m"
	Timeframe15m     Timeframe = "15m"
	Timeframe1H      Timeframe = "1H"
	Timeframe4H      Timeframe = "4H"
	Timeframe1D      Timeframe = "1D"
	TimeframeUnknown Timeframe = "unknown"
)

// Tickers is the whitelist of instrument symbols a signal may be tagged
// with. Alerts that mention none of these default to BTC.
var Tickers = []string{"BTC", "ETH", "SOL", "XRP", "ADA", "DOGE", "AVAX", "DOT", "LINK", "MATIC"}

// DefaultTicker is used when no whitelisted symbol appears in the alert.
const DefaultTicker = "BTC"

// SignalRecord is the durable unit produced by one successful ingestion.
// Records are created once, never updated, and evicted only by the store's
// retention policy.
type SignalRecord struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Message    string     `json:"message"`
	SignalType SignalType `json:"signalType"`
	Direction  Direction  `json:"direction"`
	Timeframe  Timeframe  `json:"timeframe"`
	Ticker     string     `json:"ticker"`
}

// NewSignalID returns a unique, time-ordered record ID. UUIDv7 embeds the
// creation time in the most significant bits, so lexicographic order
// tracks insertion order closely enough for feed sorting.
func NewSignalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to v4
		// rather than dropping the record.
		return uuid.New().String()
	}
	return id.String()
}
