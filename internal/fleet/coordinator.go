// Fleet coordinator running N independent device workers.
package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"devicesim/internal/device"
	"devicesim/internal/logging"
	"devicesim/internal/sender"
	"devicesim/internal/telemetry"
)

// Config is the shared template applied to every spawned device.
type Config struct {
	DeviceCount    int
	Firmware       string
	LogInterval    time.Duration
	SensorInterval time.Duration
	WriteInterval  time.Duration
	BufferCapacity int
	Policy         telemetry.Policy
}

// Coordinator owns a set of device workers. Devices are fully independent:
// no cross-device synchronization, shared buffer, or shared lock.
type Coordinator struct {
	workers []*device.Worker
}

// New builds cfg.DeviceCount workers with distinct device IDs and otherwise
// identical configuration.
func New(cfg Config, snd sender.Sender, obs device.Observer) *Coordinator {
	c := &Coordinator{}
	for i := 0; i < cfg.DeviceCount; i++ {
		c.workers = append(c.workers, device.New(device.Config{
			DeviceID:       generateDeviceID(i),
			Firmware:       cfg.Firmware,
			LogInterval:    cfg.LogInterval,
			SensorInterval: cfg.SensorInterval,
			WriteInterval:  cfg.WriteInterval,
			BufferCapacity: cfg.BufferCapacity,
			Policy:         cfg.Policy,
		}, snd, obs))
	}
	return c
}

// Workers returns the coordinated workers.
func (c *Coordinator) Workers() []*device.Worker { return c.workers }

// Run starts all workers concurrently and blocks until every one has
// stopped. Workers do not share a cancellation scope: one worker's fault
// never terminates the others. Cancel ctx to signal a fleet-wide shutdown;
// Run returns once all generators, flush timers, and in-flight sends have
// quiesced, relaying the first worker fault if any occurred.
func (c *Coordinator) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting fleet", "devices", len(c.workers))

	var g errgroup.Group
	for _, w := range c.workers {
		g.Go(func() error {
			if err := w.Run(ctx); err != nil {
				log.Error("device worker terminated", "device_id", w.ID(), "err", err)
				return err
			}
			return nil
		})
	}
	err := g.Wait()
	log.Info("fleet stopped", "devices", len(c.workers))
	return err
}

func generateDeviceID(index int) string {
	// Include the index along with a UUID to keep IDs readable and unique.
	return fmt.Sprintf("device-%d-%s", index, uuid.New().String())
}
