// Package market fetches and reshapes sentiment data from public
// upstreams. These are read-only proxies with static classification
// thresholds and short in-process caches; upstream failures degrade to
// neutral fallback payloads rather than errors.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mdxcapital/capitalflow/internal/metrics"
)

// FearGreed is the enriched Fear & Greed Index payload served to widgets.
type FearGreed struct {
	Value           int    `json:"value"`
	Classification  string `json:"classification"`
	Level           string `json:"level"`
	Color           string `json:"color"`
	Emoji           string `json:"emoji"`
	Timestamp       string `json:"timestamp,omitempty"`
	TimeUntilUpdate string `json:"time_until_update,omitempty"`
	Error           string `json:"error,omitempty"`

	// Confirmation flags consumed by the suggestion widgets.
	IsFear    bool `json:"is_fear"`
	IsGreed   bool `json:"is_greed"`
	IsExtreme bool `json:"is_extreme"`
}

// FearGreedClient fetches the index from alternative.me with a 1h cache.
type FearGreedClient struct {
	url    string
	client *http.Client
	ttl    time.Duration

	mu      sync.Mutex
	cached  *FearGreed
	expires time.Time
}

func NewFearGreedClient(url string, ttl, timeout time.Duration) *FearGreedClient {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FearGreedClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		ttl:    ttl,
	}
}

type fngResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
		Timestamp           string `json:"timestamp"`
		TimeUntilUpdate     string `json:"time_until_update"`
	} `json:"data"`
}

// Fetch returns the current index. It never returns an error: on any
// upstream failure a neutral payload with the error string is returned.
func (c *FearGreedClient) Fetch(ctx context.Context) FearGreed {
	c.mu.Lock()
	if c.cached != nil && time.Now().Before(c.expires) {
		cached := *c.cached
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	fg, err := c.fetch(ctx)
	if err != nil {
		metrics.UpstreamFetchErrors.WithLabelValues("fear_greed").Inc()
		return fallbackFearGreed(err)
	}

	c.mu.Lock()
	c.cached = &fg
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()

	return fg
}

func (c *FearGreedClient) fetch(ctx context.Context) (FearGreed, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamFetchDuration.WithLabelValues("fear_greed").Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return FearGreed{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return FearGreed{}, fmt.Errorf("fetch fear & greed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FearGreed{}, fmt.Errorf("fear & greed upstream returned %d", resp.StatusCode)
	}

	var payload fngResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return FearGreed{}, fmt.Errorf("decode fear & greed response: %w", err)
	}
	if len(payload.Data) == 0 {
		return FearGreed{}, fmt.Errorf("fear & greed upstream returned no data")
	}

	entry := payload.Data[0]
	value, err := strconv.Atoi(entry.Value)
	if err != nil {
		return FearGreed{}, fmt.Errorf("parse fear & greed value %q: %w", entry.Value, err)
	}

	level, color, emoji := classifyFearGreed(value)
	return FearGreed{
		Value:           value,
		Classification:  entry.ValueClassification,
		Level:           level,
		Color:           color,
		Emoji:           emoji,
		Timestamp:       entry.Timestamp,
		TimeUntilUpdate: entry.TimeUntilUpdate,
		IsFear:          value < 50,
		IsGreed:         value >= 50,
		IsExtreme:       value <= 25 || value >= 75,
	}, nil
}

// classifyFearGreed maps an index value to its sentiment band.
func classifyFearGreed(value int) (level, color, emoji string) {
	switch {
	case value <= 25:
		return "extreme_fear", "#ff4444", "😱"
	case value <= 45:
		return "fear", "#ff8844", "😨"
	case value <= 55:
		return "neutral", "#ffcc00", "😐"
	case value <= 75:
		return "greed", "#88cc44", "😀"
	default:
		return "extreme_greed", "#00cc44", "🤑"
	}
}

func fallbackFearGreed(err error) FearGreed {
	return FearGreed{
		Value:          50,
		Classification: "Neutral",
		Level:          "neutral",
		Color:          "#ffcc00",
		Emoji:          "😐",
		Error:          err.Error(),
	}
}
