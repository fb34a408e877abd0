package telemetry

import (
	"math/rand"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestLogGenerator(t *testing.T) {
	gen := NewLogGenerator("device-1", "1.0-sim", rand.New(rand.NewSource(1)), fixedNow)

	for i := 0; i < 20; i++ {
		msg, err := gen.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if msg.DeviceID != "device-1" || msg.Firmware != "1.0-sim" {
			t.Errorf("identity not stamped: %+v", msg)
		}
		if msg.Kind != KindLog || msg.Log == nil {
			t.Fatalf("expected log message, got %+v", msg)
		}
		if msg.Log.Severity != SeverityInfo && msg.Log.Severity != SeverityError {
			t.Errorf("unexpected severity %s", msg.Log.Severity)
		}
		if !msg.Timestamp.Equal(fixedNow()) {
			t.Errorf("timestamp not taken from clock: %v", msg.Timestamp)
		}
		if len(msg.Readings) != 0 {
			t.Errorf("log message carries sensor readings: %+v", msg)
		}
	}
}

func TestSensorGenerator(t *testing.T) {
	gen := NewSensorGenerator("device-1", "1.0-sim", rand.New(rand.NewSource(1)), fixedNow)

	for i := 0; i < 20; i++ {
		msg, err := gen.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if msg.Kind != KindSensorData || len(msg.Readings) != 1 {
			t.Fatalf("expected one sensor reading, got %+v", msg)
		}
		r := msg.Readings[0]
		if r.Name != "Temp1" {
			t.Errorf("unexpected reading name %s", r.Name)
		}
		if r.Value < 1 || r.Value >= 100 {
			t.Errorf("reading out of range: %f", r.Value)
		}
	}
}

func TestGeneratorsAreDeterministicPerSeed(t *testing.T) {
	a := NewLogGenerator("d", "f", rand.New(rand.NewSource(7)), fixedNow)
	b := NewLogGenerator("d", "f", rand.New(rand.NewSource(7)), fixedNow)
	for i := 0; i < 10; i++ {
		ma, _ := a.Next()
		mb, _ := b.Next()
		if ma.Log.Severity != mb.Log.Severity {
			t.Fatalf("same seed diverged at message %d", i)
		}
	}
}
