// Package report generates the daily BTC chart analysis. A chart
// screenshot is sent to Claude together with current sentiment data,
// and the rendered HTML report is posted to the Telegram channel as a
// photo plus a text message.
package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mdxcapital/capitalflow/internal/logging"
	"github.com/mdxcapital/capitalflow/internal/market"
	"github.com/mdxcapital/capitalflow/internal/notify"
)

// DefaultModel is the vision model used for chart analysis.
const DefaultModel = "claude-sonnet-4-20250514"

const maxReportTokens = 1800

// filenameDate matches timestamps embedded by the charting export,
// e.g. "BTCUSDT_2025-12-08_10-37-35_ffcc0.png".
var filenameDate = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})_(\d{2})-(\d{2})-(\d{2})`)

// Generator produces and delivers daily chart reports.
type Generator struct {
	client    anthropic.Client
	model     string
	fearGreed *market.FearGreedClient
	notifier  *notify.TelegramNotifier
	logger    *logging.Logger
}

func NewGenerator(apiKey, model string, fearGreed *market.FearGreedClient, notifier *notify.TelegramNotifier, logger *logging.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		fearGreed: fearGreed,
		notifier:  notifier,
		logger:    logger,
	}
}

// Report is a generated analysis ready for delivery.
type Report struct {
	ImagePath string
	Date      string
	Text      string
}

// FindLatestScreenshot returns the newest chart image in dir.
func FindLatestScreenshot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read screenshot directory: %w", err)
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, entry.Name())
			newestMod = info.ModTime()
		}
	}

	if newest == "" {
		return "", fmt.Errorf("no screenshots found in %s", dir)
	}
	return newest, nil
}

// ReportDate derives the report's display date from the screenshot
// filename, falling back to now when no timestamp is embedded.
func ReportDate(filename string, now time.Time) string {
	if m := filenameDate.FindStringSubmatch(filename); m != nil {
		parsed, err := time.Parse("2006-01-02_15-04-05", m[0])
		if err == nil {
			return parsed.Format("Monday, January 2, 2006")
		}
	}
	return now.Format("Monday, January 2, 2006")
}

// Generate analyzes the screenshot at imagePath.
func (g *Generator) Generate(ctx context.Context, imagePath string) (Report, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return Report{}, fmt.Errorf("read screenshot: %w", err)
	}

	mediaType := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(imagePath), ".png") {
		mediaType = "image/png"
	}

	date := ReportDate(filepath.Base(imagePath), time.Now())

	var fg *market.FearGreed
	if g.fearGreed != nil {
		v := g.fearGreed.Fetch(ctx)
		if v.Error == "" {
			fg = &v
		}
	}

	prompt := buildPrompt(date, fg)

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxReportTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data)),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return Report{}, fmt.Errorf("analyze chart: %w", err)
	}
	if len(msg.Content) == 0 {
		return Report{}, fmt.Errorf("analysis returned no content")
	}

	return Report{
		ImagePath: imagePath,
		Date:      date,
		Text:      msg.Content[0].Text,
	}, nil
}

// Deliver posts the report to Telegram: the chart image with a short
// caption first, then the full analysis as a text message.
func (g *Generator) Deliver(ctx context.Context, r Report) error {
	f, err := os.Open(r.ImagePath)
	if err != nil {
		return fmt.Errorf("open screenshot: %w", err)
	}
	defer f.Close()

	caption := "📊 <b>MDX Capital Flow — BTC 4H Analysis</b>"
	if err := g.notifier.SendPhoto(ctx, f, filepath.Base(r.ImagePath), caption); err != nil {
		return fmt.Errorf("send report photo: %w", err)
	}

	if err := g.notifier.Send(ctx, r.Text); err != nil {
		return fmt.Errorf("send report text: %w", err)
	}

	g.logger.InfoContext(ctx, "daily report delivered",
		logging.Component("report"),
		"image", filepath.Base(r.ImagePath),
		"date", r.Date,
	)
	return nil
}
