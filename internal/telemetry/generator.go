package telemetry

import (
	"math/rand"
	"time"
)

// Generator produces an unending sequence of messages of one kind, each
// stamped with the owning device's identity and the generation time. A
// generator never blocks on its consumer; pacing is the caller's job.
type Generator interface {
	Kind() Kind
	Next() (Message, error)
}

// LogGenerator emits simulated application log messages with a random
// severity, matching the device firmware's behavior.
type LogGenerator struct {
	DeviceID string
	Firmware string
	rng      *rand.Rand
	now      func() time.Time
}

// NewLogGenerator creates a LogGenerator for one device. rng and now may be
// nil, in which case a time-seeded source and time.Now are used.
func NewLogGenerator(deviceID, firmware string, rng *rand.Rand, now func() time.Time) *LogGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &LogGenerator{DeviceID: deviceID, Firmware: firmware, rng: rng, now: now}
}

// Kind returns KindLog.
func (g *LogGenerator) Kind() Kind { return KindLog }

// Next produces one log message. Roughly half the messages carry Error
// severity, the rest Info.
func (g *LogGenerator) Next() (Message, error) {
	severity := SeverityInfo
	if g.rng.Intn(2) == 0 {
		severity = SeverityError
	}
	return Message{
		Timestamp: g.now().UTC(),
		DeviceID:  g.DeviceID,
		Firmware:  g.Firmware,
		Kind:      KindLog,
		Log: &LogPayload{
			Severity: severity,
			Message:  "This is a simulated message.",
		},
	}, nil
}

// SensorGenerator emits simulated temperature readings.
type SensorGenerator struct {
	DeviceID string
	Firmware string
	rng      *rand.Rand
	now      func() time.Time
}

// NewSensorGenerator creates a SensorGenerator for one device. rng and now
// may be nil, in which case a time-seeded source and time.Now are used.
func NewSensorGenerator(deviceID, firmware string, rng *rand.Rand, now func() time.Time) *SensorGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &SensorGenerator{DeviceID: deviceID, Firmware: firmware, rng: rng, now: now}
}

// Kind returns KindSensorData.
func (g *SensorGenerator) Kind() Kind { return KindSensorData }

// Next produces one sensor message with a single Temp1 reading in [1,100).
func (g *SensorGenerator) Next() (Message, error) {
	return Message{
		Timestamp: g.now().UTC(),
		DeviceID:  g.DeviceID,
		Firmware:  g.Firmware,
		Kind:      KindSensorData,
		Readings: []SensorReading{
			{Name: "Temp1", Value: 1 + g.rng.Float64()*99},
		},
	}, nil
}
