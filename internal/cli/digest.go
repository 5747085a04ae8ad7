package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdxcapital/capitalflow/internal/calendar"
)

var digestSend bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build today's economic digest",
	Long: `Fetches the weekly economic calendar and builds today's high-impact
digest. By default the digest is printed; --send delivers it to the
Telegram channel.`,
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().BoolVar(&digestSend, "send", false, "deliver the digest to Telegram")
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	svc := calendar.NewService(buildCalendarClient(cfg), buildNotifier(cfg, logger), logger)

	result, err := svc.Run(cmd.Context(), digestSend)
	if err != nil {
		return err
	}

	if result.EventCount == 0 {
		fmt.Println(result.Message)
		return nil
	}

	fmt.Println(result.Message)
	if result.Sent {
		fmt.Printf("\nSent to Telegram (%d events, %d time slots)\n", result.EventCount, result.TimeSlots)
	}
	return nil
}
