package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"devicesim/internal/telemetry"
)

type collectSender struct {
	mu   sync.Mutex
	sent []telemetry.Message
}

func (s *collectSender) Send(_ context.Context, msg telemetry.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func TestReplayPreservesOrder(t *testing.T) {
	msgs := []telemetry.Message{
		{DeviceID: "d1", Kind: telemetry.KindLog, Log: &telemetry.LogPayload{Severity: telemetry.SeverityInfo, Message: "first"}},
		{DeviceID: "d1", Kind: telemetry.KindSensorData, Readings: []telemetry.SensorReading{{Name: "Temp1", Value: 2}}},
		{DeviceID: "d2", Kind: telemetry.KindLog, Log: &telemetry.LogPayload{Severity: telemetry.SeverityError, Message: "third"}},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, m := range msgs {
		if err := enc.Encode(m); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	snd := &collectSender{}
	if err := Replay(context.Background(), &buf, snd, 0); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(snd.sent) != len(msgs) {
		t.Fatalf("sent %d messages, want %d", len(snd.sent), len(msgs))
	}
	for i, m := range msgs {
		if snd.sent[i].DeviceID != m.DeviceID || snd.sent[i].Kind != m.Kind {
			t.Errorf("message %d out of order: %+v", i, snd.sent[i])
		}
	}
}

func TestReplaySkipsMalformedLines(t *testing.T) {
	input := `{"device":"d1","message_type":"log","log_message":{"severity":"Info","message":"ok"}}
this is not json
{"device":"d1","message_type":"sensorData","sensor_data":[{"name":"Temp1","value":3}]}
`
	snd := &collectSender{}
	if err := Replay(context.Background(), bytes.NewBufferString(input), snd, 0); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(snd.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(snd.sent))
	}
}

func TestReplayStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := 0; i < 10; i++ {
		enc.Encode(telemetry.Message{DeviceID: "d1", Kind: telemetry.KindLog})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snd := &collectSender{}
	err := Replay(ctx, &buf, snd, time.Hour)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(snd.sent) > 1 {
		t.Errorf("sent %d messages after cancel", len(snd.sent))
	}
}
