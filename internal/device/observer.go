package device

import (
	"log/slog"

	"devicesim/internal/telemetry"
)

// ReasonBufferOverflow tags messages dropped by flush-time overflow
// resolution.
const ReasonBufferOverflow = "buffer_overflow"

// Observer receives the events a worker emits outward: dropped messages and
// failed sends. Both are expected, non-fatal conditions; an observer must
// not block for long, it runs on the worker's flush path.
type Observer interface {
	MessageDropped(deviceID string, kind telemetry.Kind, reason string)
	SendFailed(deviceID string, kind telemetry.Kind, cause error)
}

// LogObserver reports events through a structured logger.
type LogObserver struct {
	Logger *slog.Logger
}

func (o *LogObserver) MessageDropped(deviceID string, kind telemetry.Kind, reason string) {
	o.Logger.Warn("message_dropped", "device_id", deviceID, "kind", kind, "reason", reason)
}

func (o *LogObserver) SendFailed(deviceID string, kind telemetry.Kind, cause error) {
	o.Logger.Warn("message_send_failed", "device_id", deviceID, "kind", kind, "cause", cause)
}
