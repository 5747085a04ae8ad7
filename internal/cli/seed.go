package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/mdxcapital/capitalflow/internal/classifier"
	"github.com/mdxcapital/capitalflow/internal/models"
)

var (
	seedCount  int
	seedURL    string
	seedSecret string
	seedDirect bool
	seedSpread time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Post generated alerts for demos and smoke testing",
	Long: `Generates plausible TradingView-style alert messages and posts them to
a running relay's webhook endpoint.

With --direct the webhook is skipped and classified records are
appended straight to the configured store, with timestamps spread
backwards over --spread so the delayed feed has content immediately.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 25, "number of alerts to generate")
	seedCmd.Flags().StringVar(&seedURL, "url", "http://localhost:8080/api/webhook", "webhook endpoint to post to")
	seedCmd.Flags().StringVar(&seedSecret, "secret", "", "webhook secret, if the target requires one")
	seedCmd.Flags().BoolVar(&seedDirect, "direct", false, "append to the configured store instead of posting")
	seedCmd.Flags().DurationVar(&seedSpread, "spread", 72*time.Hour, "time window to spread direct-mode timestamps over")
	rootCmd.AddCommand(seedCmd)
}

// alert message fragments recombined by the seeder. Phrasing matches
// what the chart indicator actually emits so the classifier exercises
// its real rule set.
var (
	seedActions = []string{
		"full send", "confluence entry", "manipulation sweep",
		"divergence forming", "flip confirmed", "signal",
	}
	seedBias = []string{
		"bullish breakout 🟢", "bearish breakdown 🔴", "long setup 📈",
		"short setup 📉", "ranging, no bias",
	}
	seedTimeframes = []string{"5m", "15m", "1H", "4H", "1D"}
)

func seedMessage(faker *gofakeit.Faker) string {
	return fmt.Sprintf("🚀 %s %s %s %s",
		faker.RandomString(models.Tickers),
		faker.RandomString(seedTimeframes),
		faker.RandomString(seedActions),
		faker.RandomString(seedBias),
	)
}

func runSeed(cmd *cobra.Command, args []string) error {
	faker := gofakeit.New(0)

	if seedDirect {
		return seedStore(cmd.Context(), faker)
	}
	return seedWebhook(cmd.Context(), faker)
}

func seedWebhook(ctx context.Context, faker *gofakeit.Faker) error {
	client := &http.Client{Timeout: 10 * time.Second}

	target := seedURL
	if seedSecret != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "secret=" + seedSecret
	}

	for i := 0; i < seedCount; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(seedMessage(faker)))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "text/plain")

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("post alert %d: %w", i+1, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("post alert %d: endpoint returned %d", i+1, resp.StatusCode)
		}
	}

	fmt.Printf("Posted %d alerts to %s\n", seedCount, seedURL)
	return nil
}

func seedStore(ctx context.Context, faker *gofakeit.Faker) error {
	st, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer st.Close()

	for i := 0; i < seedCount; i++ {
		msg := seedMessage(faker)
		c := classifier.Classify(msg)
		rec := models.SignalRecord{
			ID:         models.NewSignalID(),
			Timestamp:  time.Now().Add(-time.Duration(faker.IntRange(0, int(seedSpread.Seconds()))) * time.Second),
			Message:    msg,
			SignalType: c.SignalType,
			Direction:  c.Direction,
			Timeframe:  c.Timeframe,
			Ticker:     c.Ticker,
		}

		if err := st.Append(ctx, rec); err != nil {
			return fmt.Errorf("append signal %d: %w", i+1, err)
		}
	}

	fmt.Printf("Seeded %d signals into the %s store\n", seedCount, st.Backend())
	return nil
}
