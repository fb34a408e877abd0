package sender

import (
	"context"

	"devicesim/internal/telemetry"
)

// MultiSender fans a message out to several senders.
type MultiSender struct {
	senders []Sender
}

// NewMultiSender creates a MultiSender.
func NewMultiSender(senders ...Sender) *MultiSender {
	return &MultiSender{senders: senders}
}

// Send delivers the message to all senders, returning the first error.
func (m *MultiSender) Send(ctx context.Context, msg telemetry.Message) error {
	for _, s := range m.senders {
		if err := s.Send(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// SendBatch delivers multiple messages to all senders, using batch mode
// where supported.
func (m *MultiSender) SendBatch(ctx context.Context, msgs []telemetry.Message) error {
	for _, s := range m.senders {
		if bs, ok := s.(BatchSender); ok {
			if err := bs.SendBatch(ctx, msgs); err != nil {
				return err
			}
			continue
		}
		for _, msg := range msgs {
			if err := s.Send(ctx, msg); err != nil {
				return err
			}
		}
	}
	return nil
}
