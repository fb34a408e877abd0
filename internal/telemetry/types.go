// Message model shared by generators, buffers, and senders.
package telemetry

import (
	"time"
)

// Kind identifies the class of a message. The set is closed: the collector
// rejects anything outside it.
type Kind string

// Message kinds. Wire values match the device firmware.
const (
	KindLog        Kind = "log"
	KindSensorData Kind = "sensorData"
)

// Kinds lists all known message kinds.
var Kinds = []Kind{KindLog, KindSensorData}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindLog, KindSensorData:
		return true
	}
	return false
}

// Severity classifies a log message.
type Severity string

// Log severities.
const (
	SeverityDebug   Severity = "Debug"
	SeverityInfo    Severity = "Info"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// LogPayload is the body of a KindLog message.
type LogPayload struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// SensorReading is one named measurement inside a KindSensorData message.
type SensorReading struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Message is one telemetry or log event emitted by a device. It is
// immutable once constructed; a message is only ever transmitted or
// dropped, never mutated.
type Message struct {
	Timestamp time.Time       `json:"timestamp"`
	DeviceID  string          `json:"device"`
	Firmware  string          `json:"firmware"`
	Kind      Kind            `json:"message_type"`
	Log       *LogPayload     `json:"log_message,omitempty"`
	Readings  []SensorReading `json:"sensor_data,omitempty"`
}
