// Package notify delivers rendered alert text to the chat channel.
// Delivery is fire-and-forget with a boolean outcome: the caller learns
// whether the sink accepted the message plus a diagnostic on rejection,
// nothing more. No retries happen at this layer.
package notify

import "context"

// Notifier is the outbound chat sink.
type Notifier interface {
	// Send delivers one message. A nil return means the sink accepted it.
	Send(ctx context.Context, text string) error

	// Configured reports whether the sink has credentials to deliver at
	// all. An unconfigured sink fails every Send.
	Configured() bool
}
