package sender

import (
	"context"
	"testing"

	"devicesim/internal/telemetry"
)

type recordSender struct {
	sent    []telemetry.Message
	batches int
}

func (s *recordSender) Send(_ context.Context, msg telemetry.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

type recordBatchSender struct {
	recordSender
}

func (s *recordBatchSender) SendBatch(_ context.Context, msgs []telemetry.Message) error {
	s.sent = append(s.sent, msgs...)
	s.batches++
	return nil
}

func TestMultiSenderFansOut(t *testing.T) {
	a := &recordSender{}
	b := &recordSender{}
	m := NewMultiSender(a, b)

	msg := telemetry.Message{DeviceID: "d1", Kind: telemetry.KindLog}
	if err := m.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Errorf("fan-out failed: %d/%d", len(a.sent), len(b.sent))
	}
}

func TestMultiSenderUsesBatchWhenSupported(t *testing.T) {
	plain := &recordSender{}
	batch := &recordBatchSender{}
	m := NewMultiSender(plain, batch)

	msgs := []telemetry.Message{
		{DeviceID: "d1", Kind: telemetry.KindLog},
		{DeviceID: "d1", Kind: telemetry.KindSensorData},
	}
	if err := m.SendBatch(context.Background(), msgs); err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if len(plain.sent) != 2 || len(batch.sent) != 2 {
		t.Errorf("expected both senders to receive 2 messages, got %d/%d", len(plain.sent), len(batch.sent))
	}
	if batch.batches != 1 {
		t.Errorf("batch-capable sender called %d times in batch mode, want 1", batch.batches)
	}
}
