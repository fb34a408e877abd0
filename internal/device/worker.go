// Per-device worker driving message generation and periodic flushes.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"devicesim/internal/buffer"
	"devicesim/internal/logging"
	"devicesim/internal/sender"
	"devicesim/internal/telemetry"
)

// State is the worker lifecycle state. Stopped is terminal; a stopped
// worker is never restarted.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Config holds the per-device settings fixed at worker creation.
type Config struct {
	DeviceID       string
	Firmware       string
	LogInterval    time.Duration
	SensorInterval time.Duration
	WriteInterval  time.Duration
	BufferCapacity int
	Policy         telemetry.Policy
}

type generatorLoop struct {
	gen      telemetry.Generator
	interval time.Duration
}

// Worker owns one priority buffer and one generator per message kind for a
// single simulated device. Workers share no mutable state with each other.
type Worker struct {
	id            string
	firmware      string
	writeInterval time.Duration
	gens          []generatorLoop
	buf           *buffer.PriorityBuffer
	sender        sender.Sender
	obs           Observer
	state         atomic.Int32
	sends         sync.WaitGroup
}

// New creates a worker in StateIdle. obs may be nil, in which case events
// are reported through the run context's logger.
func New(cfg Config, snd sender.Sender, obs Observer) *Worker {
	w := &Worker{
		id:            cfg.DeviceID,
		firmware:      cfg.Firmware,
		writeInterval: cfg.WriteInterval,
		buf:           buffer.New(cfg.BufferCapacity, cfg.Policy),
		sender:        snd,
		obs:           obs,
	}
	if cfg.LogInterval > 0 {
		w.gens = append(w.gens, generatorLoop{
			gen:      telemetry.NewLogGenerator(cfg.DeviceID, cfg.Firmware, nil, nil),
			interval: cfg.LogInterval,
		})
	}
	if cfg.SensorInterval > 0 {
		w.gens = append(w.gens, generatorLoop{
			gen:      telemetry.NewSensorGenerator(cfg.DeviceID, cfg.Firmware, nil, nil),
			interval: cfg.SensorInterval,
		})
	}
	return w
}

// ID returns the device identifier.
func (w *Worker) ID() string { return w.id }

// State returns the current lifecycle state.
func (w *Worker) State() State { return State(w.state.Load()) }

// Buffered returns the number of messages awaiting the next flush.
func (w *Worker) Buffered() int { return w.buf.Len() }

// Run starts the generator loops and the flush loop and blocks until ctx is
// canceled or a generation fault occurs. Overflow drops and transport
// failures never stop the worker. Run returns only after all loops and any
// in-flight sends have finished.
func (w *Worker) Run(ctx context.Context) error {
	if !w.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("device %s: worker already started", w.id)
	}
	defer w.state.Store(int32(StateStopped))

	log := logging.FromContext(ctx)
	log.Info("device worker starting", "device_id", w.id, "firmware", w.firmware, "write_interval", w.writeInterval)

	if w.obs == nil {
		w.obs = &LogObserver{Logger: log}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, gl := range w.gens {
		g.Go(func() error {
			return w.runGenerator(gctx, gl)
		})
	}
	g.Go(func() error {
		w.runFlush(gctx)
		return nil
	})

	err := g.Wait()
	w.sends.Wait()

	// Cancellation and deadline expiry of the run context are both clean
	// shutdowns; only generator errors count as faults.
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		log.Error("device worker stopped on generation fault", "device_id", w.id, "err", err)
		return err
	}
	log.Info("device worker stopped", "device_id", w.id)
	return nil
}

// runGenerator emits one message per tick into the buffer. The buffer never
// applies backpressure, so generation pace is independent of flush pace. A
// loop that falls behind fires on the next tick; time.Ticker drops missed
// ticks rather than bursting.
func (w *Worker) runGenerator(ctx context.Context, gl generatorLoop) error {
	ticker := time.NewTicker(gl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			msg, err := gl.gen.Next()
			if err != nil {
				return fmt.Errorf("device %s: generate %s: %w", w.id, gl.gen.Kind(), err)
			}
			w.buf.Add(msg)
		}
	}
}

// runFlush drains the buffer on every write interval.
func (w *Worker) runFlush(ctx context.Context) {
	ticker := time.NewTicker(w.writeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// flush resolves overflow and dispatches retained messages. Dispatch runs
// in its own goroutine so network I/O never stalls the next generation or
// flush tick; a flush that has started always completes its sends.
func (w *Worker) flush(ctx context.Context) {
	retained, dropped := w.buf.Flush()
	for _, m := range dropped {
		w.obs.MessageDropped(w.id, m.Kind, ReasonBufferOverflow)
	}
	if len(retained) == 0 {
		return
	}

	sendCtx := context.WithoutCancel(ctx)
	w.sends.Add(1)
	go func() {
		defer w.sends.Done()
		if bs, ok := w.sender.(sender.BatchSender); ok {
			if err := bs.SendBatch(sendCtx, retained); err != nil {
				for _, m := range retained {
					w.obs.SendFailed(w.id, m.Kind, err)
				}
			}
			return
		}
		for _, m := range retained {
			if err := w.sender.Send(sendCtx, m); err != nil {
				w.obs.SendFailed(w.id, m.Kind, err)
			}
		}
	}()
}
