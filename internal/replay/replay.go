// Replay of pre-recorded message files through a sender.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"devicesim/internal/logging"
	"devicesim/internal/sender"
	"devicesim/internal/telemetry"
)

// Replay reads NDJSON messages from r and sends each through snd, pausing
// interval between messages. Malformed lines are logged and skipped; send
// failures are logged and not retried. Replay stops early when ctx is
// canceled.
func Replay(ctx context.Context, r io.Reader, snd sender.Sender, interval time.Duration) error {
	log := logging.FromContext(ctx)
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg telemetry.Message
		if err := json.Unmarshal(line, &msg); err != nil {
			log.Warn("skipping malformed line", "err", err)
			continue
		}
		if !first && interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
		first = false
		if err := snd.Send(ctx, msg); err != nil {
			log.Warn("replay send failed", "device_id", msg.DeviceID, "kind", msg.Kind, "cause", err)
		}
	}
	return scanner.Err()
}

// ReplayFile opens path and replays its messages.
func ReplayFile(ctx context.Context, path string, snd sender.Sender, interval time.Duration) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Replay(ctx, f, snd, interval)
}
