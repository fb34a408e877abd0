// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"devicesim/internal/telemetry"
)

// Duration wraps time.Duration for YAML strings like "500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the fleet configuration applied uniformly to every simulated
// device.
type Config struct {
	DeviceCount    int      `yaml:"device_count"`
	Firmware       string   `yaml:"firmware"`
	LogInterval    Duration `yaml:"log_interval"`
	SensorInterval Duration `yaml:"sensor_interval"`
	WriteInterval  Duration `yaml:"write_interval"`
	BufferCapacity int      `yaml:"buffer_capacity"`
	Priority       []string `yaml:"priority"`
	LogErrorFirst  *bool    `yaml:"log_error_first"`
	Endpoint       string   `yaml:"endpoint"`
}

// Default returns the configuration matching the firmware defaults: three
// devices, 500ms cadences, buffer capacity 3, logs above sensor data.
func Default() *Config {
	errorFirst := true
	return &Config{
		DeviceCount:    3,
		Firmware:       "1.0-sim",
		LogInterval:    Duration(500 * time.Millisecond),
		SensorInterval: Duration(500 * time.Millisecond),
		WriteInterval:  Duration(500 * time.Millisecond),
		BufferCapacity: 3,
		Priority:       []string{string(telemetry.KindLog), string(telemetry.KindSensorData)},
		LogErrorFirst:  &errorFirst,
		Endpoint:       "http://localhost:8080",
	}
}

// Load validates the YAML file against the CUE schema, then unmarshals it
// over the defaults.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the constraints CUE cannot express on the decoded values.
func (c *Config) Validate() error {
	if c.DeviceCount <= 0 {
		return fmt.Errorf("device_count must be > 0")
	}
	if c.LogInterval <= 0 || c.SensorInterval <= 0 || c.WriteInterval <= 0 {
		return fmt.Errorf("intervals must be > 0")
	}
	if c.BufferCapacity < 0 {
		return fmt.Errorf("buffer_capacity must be >= 0")
	}
	for _, k := range c.Priority {
		if !telemetry.Kind(k).Valid() {
			return fmt.Errorf("unknown kind %q in priority order", k)
		}
	}
	return nil
}

// Policy builds the priority policy from the configured kind order.
func (c *Config) Policy() telemetry.Policy {
	order := make([]telemetry.Kind, len(c.Priority))
	for i, k := range c.Priority {
		order[i] = telemetry.Kind(k)
	}
	errorFirst := true
	if c.LogErrorFirst != nil {
		errorFirst = *c.LogErrorFirst
	}
	return telemetry.NewPolicy(order, errorFirst)
}
