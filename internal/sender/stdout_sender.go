// Sender implementation printing messages to STDOUT.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"devicesim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// StdoutSender prints messages to STDOUT: one JSON line per message, or a
// colorized human-readable line when the output is a terminal.
type StdoutSender struct {
	out      io.Writer
	colorize bool
}

// NewStdoutSender creates a StdoutSender writing to os.Stdout, colorized
// when STDOUT is a terminal.
func NewStdoutSender() *StdoutSender {
	return &StdoutSender{
		out:      os.Stdout,
		colorize: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Send prints one message.
func (s *StdoutSender) Send(_ context.Context, msg telemetry.Message) error {
	if !s.colorize {
		data, _ := json.Marshal(msg)
		fmt.Fprintln(s.out, string(data))
		return nil
	}
	fmt.Fprintln(s.out, formatMessage(msg))
	return nil
}

// SendBatch prints multiple messages.
func (s *StdoutSender) SendBatch(ctx context.Context, msgs []telemetry.Message) error {
	for _, m := range msgs {
		_ = s.Send(ctx, m)
	}
	return nil
}

func formatMessage(m telemetry.Message) string {
	kindColor := colorCyan
	detail := ""
	switch m.Kind {
	case telemetry.KindLog:
		kindColor = colorBlue
		if m.Log != nil {
			sevColor := colorGreen
			switch m.Log.Severity {
			case telemetry.SeverityError:
				sevColor = colorRed
			case telemetry.SeverityWarning:
				sevColor = colorYellow
			}
			detail = fmt.Sprintf(" %s%s%s %q", sevColor, m.Log.Severity, colorReset, m.Log.Message)
		}
	case telemetry.KindSensorData:
		for _, r := range m.Readings {
			detail += fmt.Sprintf(" %s%s=%.2f%s", colorMagenta, r.Name, r.Value, colorReset)
		}
	}
	return fmt.Sprintf("%s[%s]%s %sdevice=%s%s %sfw=%s%s %s%s%s%s",
		colorGray, m.Timestamp.Format(time.RFC3339), colorReset,
		colorGreen, m.DeviceID, colorReset,
		colorGray, m.Firmware, colorReset,
		kindColor, m.Kind, colorReset,
		detail,
	)
}
