// Transport senders delivering messages to the collector or other sinks.
package sender

import (
	"context"

	"devicesim/internal/telemetry"
)

// Sender delivers a single message to a sink. Delivery is fire-and-forget:
// a failed send carries no retry obligation back onto the caller.
type Sender interface {
	Send(ctx context.Context, msg telemetry.Message) error
}

// BatchSender is optionally implemented by senders that can deliver a whole
// flush batch in one call. Dispatchers probe for it and fall back to
// per-message Send.
type BatchSender interface {
	SendBatch(ctx context.Context, msgs []telemetry.Message) error
}
