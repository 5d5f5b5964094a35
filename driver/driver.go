// Package driver runs a droplet world at a fixed cadence and fans the frames
// out to the rest of the program.
package driver

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/akmonengine/droplet"
	"go.uber.org/zap"
)

const DEFAULT_FPS_WINDOW = 5 * time.Second

// Sink receives every frame, on the goroutine running the driver.
// A sink must not block: slow consumers should copy or drop.
type Sink func(droplet.Frame)

// Hook runs after the sinks. An error is logged and does not stop the driver.
type Hook func(droplet.Frame) error

// Driver owns the goroutine calling World.Tick
type Driver struct {
	world     *droplet.World
	tickRate  int
	fpsWindow time.Duration
	logger    *zap.Logger

	sinks []Sink
	hooks []Hook

	windowStart  time.Time
	windowFrames int
	fps          atomic.Uint64
}

type Option func(*Driver)

func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithTickRate overrides the tick rate of the world configuration
func WithTickRate(ticksPerSecond int) Option {
	return func(d *Driver) {
		if ticksPerSecond > 0 && ticksPerSecond <= droplet.MAX_TICK_RATE {
			d.tickRate = ticksPerSecond
		}
	}
}

// WithFPSWindow sets how often the measured frame rate is computed and logged
func WithFPSWindow(window time.Duration) Option {
	return func(d *Driver) {
		if window > 0 {
			d.fpsWindow = window
		}
	}
}

func New(world *droplet.World, opts ...Option) *Driver {
	d := &Driver{
		world:     world,
		tickRate:  world.Config().TickRate,
		fpsWindow: DEFAULT_FPS_WINDOW,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Subscribe registers a sink. Not safe once Run has started.
func (d *Driver) Subscribe(sink Sink) {
	d.sinks = append(d.sinks, sink)
}

// AddHook registers a hook. Not safe once Run has started.
func (d *Driver) AddHook(hook Hook) {
	d.hooks = append(d.hooks, hook)
}

// FPS returns the frame rate measured over the last complete window
func (d *Driver) FPS() float64 {
	return math.Float64frombits(d.fps.Load())
}

// Step ticks the world once and hands the frame to the sinks, then the hooks
func (d *Driver) Step() droplet.Frame {
	frame := d.world.Tick()

	for _, sink := range d.sinks {
		sink(frame)
	}
	for _, hook := range d.hooks {
		if err := hook(frame); err != nil {
			d.logger.Warn("frame hook failed",
				zap.Uint64("frame", frame.FrameNumber),
				zap.Error(err),
			)
		}
	}

	return frame
}

// Run ticks the world tickRate times per second until ctx is done
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(d.tickRate))
	defer ticker.Stop()

	d.logger.Info("driver started",
		zap.Int("tick_rate", d.tickRate),
		zap.Stringer("world", d.world),
	)
	d.windowStart = time.Now()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("driver stopped", zap.Uint64("frame", d.world.FrameNumber()))
			return nil
		case now := <-ticker.C:
			d.Step()
			d.measure(now)
		}
	}
}

func (d *Driver) measure(now time.Time) {
	d.windowFrames++

	elapsed := now.Sub(d.windowStart)
	if elapsed < d.fpsWindow {
		return
	}

	fps := float64(d.windowFrames) / elapsed.Seconds()
	d.fps.Store(math.Float64bits(fps))
	queue := d.world.Commands()
	d.logger.Info("frame rate",
		zap.Float64("fps", fps),
		zap.Int("circles", len(d.world.Circles)),
		zap.Int("queue", queue.Len()),
		zap.Int("queue_cap", queue.Cap()),
	)

	d.windowStart = now
	d.windowFrames = 0
}
