package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes messages to the structured log instead of a chat
// channel. Useful for local runs without Telegram credentials.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Configured() bool {
	return true
}

func (l *LogNotifier) Send(ctx context.Context, text string) error {
	l.logger.InfoContext(ctx, "notification", slog.String("text", text))
	return nil
}
