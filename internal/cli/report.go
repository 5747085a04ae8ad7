package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdxcapital/capitalflow/internal/notify"
	"github.com/mdxcapital/capitalflow/internal/report"
)

var reportDryRun bool

var reportCmd = &cobra.Command{
	Use:   "report [screenshot]",
	Short: "Generate and post the daily BTC chart report",
	Long: `Analyzes a BTC 4H chart screenshot with Claude and posts the rendered
report to the Telegram channel. Without an argument the newest image
in the configured screenshot directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportDryRun, "dry-run", false, "print the report without posting it")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if cfg.Report.AnthropicAPIKey == "" {
		return fmt.Errorf("report generation requires an Anthropic API key")
	}

	imagePath := ""
	if len(args) == 1 {
		imagePath = args[0]
	} else {
		var err error
		imagePath, err = report.FindLatestScreenshot(cfg.Report.ScreenshotDir)
		if err != nil {
			return err
		}
	}

	var notifier *notify.TelegramNotifier
	if !reportDryRun {
		if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
			return fmt.Errorf("posting the report requires Telegram credentials (or use --dry-run)")
		}
		notifier = notify.NewTelegramNotifier(cfg.Telegram.APIBase, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}

	gen := report.NewGenerator(cfg.Report.AnthropicAPIKey, cfg.Report.Model, buildFearGreedClient(cfg), notifier, logger)

	fmt.Printf("Analyzing %s ...\n", imagePath)
	r, err := gen.Generate(cmd.Context(), imagePath)
	if err != nil {
		return err
	}

	if reportDryRun {
		fmt.Println(r.Text)
		return nil
	}

	if err := gen.Deliver(cmd.Context(), r); err != nil {
		return err
	}
	fmt.Printf("Report for %s posted to Telegram\n", r.Date)
	return nil
}
