// Package calendar fetches the weekly economic calendar and builds the
// daily high-impact digest delivered to the Telegram channel.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mdxcapital/capitalflow/internal/metrics"
)

// majorCurrencies are the only calendar countries worth alerting on.
var majorCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"CNY": true,
	"AUD": true,
	"CAD": true,
	"CHF": true,
}

// vipKeywords mark events important enough to headline the digest.
var vipKeywords = []string{
	"fomc",
	"interest rate",
	"non-farm",
	"nonfarm",
	"cpi",
	"gdp",
	"powell",
	"unemployment rate",
	"pce",
}

// Event is a filtered high-impact calendar entry.
type Event struct {
	Title     string `json:"title"`
	Country   string `json:"country"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
	Forecast  string `json:"forecast,omitempty"`
	Previous  string `json:"previous,omitempty"`
	IsVIP     bool   `json:"isVIP"`
}

// Client fetches the weekly calendar feed with a 1h cache. The feed is
// a static JSON file regenerated a few times a day, so aggressive
// caching is safe.
type Client struct {
	url    string
	client *http.Client
	ttl    time.Duration

	mu      sync.Mutex
	cached  []Event
	expires time.Time
}

func NewClient(url string, ttl, timeout time.Duration) *Client {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
		ttl:    ttl,
	}
}

type feedEntry struct {
	Title    string `json:"title"`
	Country  string `json:"country"`
	Date     string `json:"date"`
	Impact   string `json:"impact"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
}

// HighImpactEvents returns this week's high-impact events for major
// currencies, sorted by time ascending.
func (c *Client) HighImpactEvents(ctx context.Context) ([]Event, error) {
	c.mu.Lock()
	if c.cached != nil && time.Now().Before(c.expires) {
		events := make([]Event, len(c.cached))
		copy(events, c.cached)
		c.mu.Unlock()
		return events, nil
	}
	c.mu.Unlock()

	events, err := c.fetch(ctx)
	if err != nil {
		metrics.UpstreamFetchErrors.WithLabelValues("calendar").Inc()
		return nil, err
	}

	c.mu.Lock()
	c.cached = events
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()

	return events, nil
}

func (c *Client) fetch(ctx context.Context) ([]Event, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamFetchDuration.WithLabelValues("calendar").Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar upstream returned %d", resp.StatusCode)
	}

	var entries []feedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode calendar response: %w", err)
	}

	events := make([]Event, 0, len(entries))
	for _, e := range entries {
		if !strings.EqualFold(e.Impact, "High") || !majorCurrencies[e.Country] {
			continue
		}
		ts, err := time.Parse(time.RFC3339, e.Date)
		if err != nil {
			continue
		}
		events = append(events, Event{
			Title:     e.Title,
			Country:   e.Country,
			Date:      e.Date,
			Timestamp: ts.Unix(),
			Forecast:  e.Forecast,
			Previous:  e.Previous,
			IsVIP:     isVIP(e.Title),
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Timestamp < events[j].Timestamp })
	return events, nil
}

func isVIP(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range vipKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
