package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"devicesim/internal/config"
	"devicesim/internal/device"
	"devicesim/internal/fleet"
	"devicesim/internal/logging"
	"devicesim/internal/tui"
)

var (
	simConfigPath     string
	simSchemaPath     string
	simDevices        int
	simLogInterval    time.Duration
	simSensorInterval time.Duration
	simWriteInterval  time.Duration
	simBufferSize     int
	simPort           int
	simPrintOnly      bool
	simLogFile        string
	simTUI            bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the device fleet simulator",
	Long:  "simulate spawns independent device workers that generate log and sensor messages, buffer them, and flush the highest-priority ones to the collector on each write interval.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		snd, cleanup, err := newSender(cfg, simPrintOnly, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		var obs device.Observer = &device.LogObserver{Logger: logger}
		if simTUI {
			dash := tui.NewDashboard()
			snd = dash.Wrap(snd)
			obs = dash
		}

		coordinator := fleet.New(fleet.Config{
			DeviceCount:    cfg.DeviceCount,
			Firmware:       cfg.Firmware,
			LogInterval:    cfg.LogInterval.Std(),
			SensorInterval: cfg.SensorInterval.Std(),
			WriteInterval:  cfg.WriteInterval.Std(),
			BufferCapacity: cfg.BufferCapacity,
			Policy:         cfg.Policy(),
		}, snd, obs)

		done := make(chan error, 1)
		go func() {
			done <- coordinator.Run(ctx)
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		err = waitForFleet(done, sigs, cancel)
		logger.Info("simulation stopped")
		return err
	},
}

// waitForFleet blocks until the fleet stops on its own (every worker
// faulted) or a shutdown signal arrives, in which case it cancels the run
// context and waits for the fleet to drain.
func waitForFleet(done <-chan error, sigs <-chan os.Signal, cancel context.CancelFunc) error {
	select {
	case err := <-done:
		return err
	case <-sigs:
		cancel()
		return <-done
	}
}

// loadConfig loads the YAML config when present and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(simConfigPath); err == nil {
		loaded, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if cmd.Flags().Changed("config") {
		return nil, fmt.Errorf("config file %s not found", simConfigPath)
	}

	flags := cmd.Flags()
	if flags.Changed("devices") {
		cfg.DeviceCount = simDevices
	}
	if flags.Changed("log-interval") {
		cfg.LogInterval = config.Duration(simLogInterval)
	}
	if flags.Changed("sensor-interval") {
		cfg.SensorInterval = config.Duration(simSensorInterval)
	}
	if flags.Changed("write-interval") {
		cfg.WriteInterval = config.Duration(simWriteInterval)
	}
	if flags.Changed("buffer-size") {
		cfg.BufferCapacity = simBufferSize
	}
	if flags.Changed("port") {
		cfg.Endpoint = fmt.Sprintf("http://localhost:%d", simPort)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/fleet.yaml", "Path to fleet configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/fleet.cue", "Path to CUE schema file")
	simulateCmd.Flags().IntVarP(&simDevices, "devices", "n", 3, "Number of devices to simulate")
	simulateCmd.Flags().DurationVar(&simLogInterval, "log-interval", 500*time.Millisecond, "Time between log messages per device")
	simulateCmd.Flags().DurationVar(&simSensorInterval, "sensor-interval", 500*time.Millisecond, "Time between sensor messages per device")
	simulateCmd.Flags().DurationVar(&simWriteInterval, "write-interval", 500*time.Millisecond, "Time between buffer flushes per device")
	simulateCmd.Flags().IntVar(&simBufferSize, "buffer-size", 3, "Messages a device transmits per flush; the rest are dropped by priority")
	simulateCmd.Flags().IntVarP(&simPort, "port", "p", 8080, "Collector port at http://localhost:<port>")
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print messages to STDOUT instead of sending them")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export sent messages (JSONL, replayable)")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Show a live fleet dashboard")
}
