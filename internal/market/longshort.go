package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mdxcapital/capitalflow/internal/metrics"
)

// Periods accepted by the long/short ratio endpoint.
var validRatioPeriods = map[string]bool{
	"5m": true,
	"1H": true,
	"1D": true,
}

// DefaultRatioPeriod is used when the requested period is missing or invalid.
const DefaultRatioPeriod = "1H"

// LongShortRatio is the derived positioning snapshot for BTC.
type LongShortRatio struct {
	Symbol    string  `json:"symbol"`
	Period    string  `json:"period"`
	LongPct   float64 `json:"long_pct"`
	ShortPct  float64 `json:"short_pct"`
	Ratio     float64 `json:"ratio"`
	Crowding  string  `json:"crowding"`
	Label     string  `json:"label"`
	Emoji     string  `json:"emoji"`
	Timestamp int64   `json:"timestamp,omitempty"`
	Source    string  `json:"source"`
	Error     string  `json:"error,omitempty"`

	IsCrowdedLong  bool `json:"is_crowded_long"`
	IsCrowdedShort bool `json:"is_crowded_short"`
	IsExtreme      bool `json:"is_extreme"`
}

// LongShortClient fetches the BTC long/short account ratio, preferring
// OKX and falling back to Binance when OKX is unavailable. Results are
// cached per period for a short window.
type LongShortClient struct {
	okxURL     string
	binanceURL string
	client     *http.Client
	ttl        time.Duration

	mu      sync.Mutex
	cached  map[string]LongShortRatio
	expires map[string]time.Time
}

func NewLongShortClient(okxURL, binanceURL string, ttl, timeout time.Duration) *LongShortClient {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LongShortClient{
		okxURL:     okxURL,
		binanceURL: binanceURL,
		client:     &http.Client{Timeout: timeout},
		ttl:        ttl,
		cached:     make(map[string]LongShortRatio),
		expires:    make(map[string]time.Time),
	}
}

// NormalizePeriod validates a requested period, returning the default
// for anything outside the supported set.
func NormalizePeriod(period string) string {
	if validRatioPeriods[period] {
		return period
	}
	return DefaultRatioPeriod
}

// Fetch returns the ratio for the given period. Like the Fear & Greed
// client it never returns an error; failures produce a balanced
// fallback payload carrying the error string.
func (c *LongShortClient) Fetch(ctx context.Context, period string) LongShortRatio {
	period = NormalizePeriod(period)

	c.mu.Lock()
	if exp, ok := c.expires[period]; ok && time.Now().Before(exp) {
		cached := c.cached[period]
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	ratio, source, ts, err := c.fetchOKX(ctx, period)
	if err != nil {
		metrics.UpstreamFetchErrors.WithLabelValues("okx_ratio").Inc()
		ratio, source, ts, err = c.fetchBinance(ctx, period)
		if err != nil {
			metrics.UpstreamFetchErrors.WithLabelValues("binance_ratio").Inc()
			return fallbackLongShort(period, err)
		}
	}

	result := deriveLongShort(ratio, period, source, ts)

	c.mu.Lock()
	c.cached[period] = result
	c.expires[period] = time.Now().Add(c.ttl)
	c.mu.Unlock()

	return result
}

type okxRatioResponse struct {
	Code string     `json:"code"`
	Data [][]string `json:"data"`
}

func (c *LongShortClient) fetchOKX(ctx context.Context, period string) (float64, string, int64, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamFetchDuration.WithLabelValues("okx_ratio").Observe(time.Since(start).Seconds())
	}()

	url := fmt.Sprintf("%s?ccy=BTC&period=%s", c.okxURL, period)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", 0, fmt.Errorf("fetch okx ratio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", 0, fmt.Errorf("okx upstream returned %d", resp.StatusCode)
	}

	var payload okxRatioResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, "", 0, fmt.Errorf("decode okx response: %w", err)
	}
	if payload.Code != "0" || len(payload.Data) == 0 || len(payload.Data[0]) < 2 {
		return 0, "", 0, fmt.Errorf("okx upstream returned no usable data (code %s)", payload.Code)
	}

	// Entries are [timestamp, ratio] string pairs, newest first.
	entry := payload.Data[0]
	ratio, err := strconv.ParseFloat(entry[1], 64)
	if err != nil {
		return 0, "", 0, fmt.Errorf("parse okx ratio %q: %w", entry[1], err)
	}
	ts, _ := strconv.ParseInt(entry[0], 10, 64)

	return ratio, "okx", ts, nil
}

type binanceRatioEntry struct {
	LongShortRatio string `json:"longShortRatio"`
	Timestamp      int64  `json:"timestamp"`
}

func (c *LongShortClient) fetchBinance(ctx context.Context, period string) (float64, string, int64, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamFetchDuration.WithLabelValues("binance_ratio").Observe(time.Since(start).Seconds())
	}()

	// Binance uses lowercase interval names.
	interval := map[string]string{"5m": "5m", "1H": "1h", "1D": "1d"}[period]
	url := fmt.Sprintf("%s?symbol=BTCUSDT&period=%s&limit=1", c.binanceURL, interval)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", 0, fmt.Errorf("fetch binance ratio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", 0, fmt.Errorf("binance upstream returned %d", resp.StatusCode)
	}

	var payload []binanceRatioEntry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, "", 0, fmt.Errorf("decode binance response: %w", err)
	}
	if len(payload) == 0 {
		return 0, "", 0, fmt.Errorf("binance upstream returned no data")
	}

	ratio, err := strconv.ParseFloat(payload[0].LongShortRatio, 64)
	if err != nil {
		return 0, "", 0, fmt.Errorf("parse binance ratio %q: %w", payload[0].LongShortRatio, err)
	}

	return ratio, "binance", payload[0].Timestamp, nil
}

// deriveLongShort converts a raw long/short account ratio into
// percentages and crowding classification.
func deriveLongShort(ratio float64, period, source string, ts int64) LongShortRatio {
	longPct := ratio / (ratio + 1) * 100
	shortPct := 100 - longPct

	crowding, label, emoji := classifyCrowding(longPct, shortPct)

	return LongShortRatio{
		Symbol:         "BTC",
		Period:         period,
		LongPct:        round1(longPct),
		ShortPct:       round1(shortPct),
		Ratio:          round2(ratio),
		Crowding:       crowding,
		Label:          label,
		Emoji:          emoji,
		Timestamp:      ts,
		Source:         source,
		IsCrowdedLong:  longPct >= 60,
		IsCrowdedShort: shortPct >= 60,
		IsExtreme:      longPct >= 65 || shortPct >= 65,
	}
}

func classifyCrowding(longPct, shortPct float64) (crowding, label, emoji string) {
	switch {
	case longPct >= 65:
		return "extreme_long", "Extremely crowded long", "🔥"
	case longPct >= 60:
		return "crowded_long", "Crowded long", "⚠️"
	case shortPct >= 65:
		return "extreme_short", "Extremely crowded short", "🔥"
	case shortPct >= 60:
		return "crowded_short", "Crowded short", "⚠️"
	default:
		return "balanced", "Balanced", "⚖️"
	}
}

func fallbackLongShort(period string, err error) LongShortRatio {
	return LongShortRatio{
		Symbol:   "BTC",
		Period:   period,
		LongPct:  50,
		ShortPct: 50,
		Ratio:    1,
		Crowding: "balanced",
		Label:    "Balanced",
		Emoji:    "⚖️",
		Source:   "none",
		Error:    err.Error(),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
