package droplet

import (
	"fmt"

	"github.com/akmonengine/droplet/actor"
	"go.uber.org/zap"
)

// World owns every body of the simulation. Only one goroutine may call Tick;
// producers on other goroutines talk to it through Enqueue.
type World struct {
	// Dynamic circles, addressed by index during a tick
	Circles          []actor.DynamicCircle
	StaticCircles    []actor.StaticCircle
	StaticRectangles []actor.StaticRectangle

	Width  float64
	Height float64

	Events Events

	config      Config
	frameNumber uint64
	queue       *CommandQueue
	spatialGrid *SpatialGrid
	stats       Stats
	logger      *zap.Logger
}

// Stats counts what happened during the last tick
type Stats struct {
	Commands         int
	Expired          int
	Candidates       int
	PairContacts     int
	ObstacleContacts int
}

// Option customizes a World at construction
type Option func(*World)

// WithLogger sets the logger, the default one discards everything
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithQueue makes the world drain an existing queue instead of creating its own
func WithQueue(queue *CommandQueue) Option {
	return func(w *World) {
		w.queue = queue
	}
}

// NewWorld creates an empty world sized config.Width x config.Height
func NewWorld(config Config, opts ...Option) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		Width:       config.Width,
		Height:      config.Height,
		Events:      NewEvents(),
		config:      config,
		spatialGrid: NewSpatialGrid(config.CellSize),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.queue == nil {
		w.queue = NewCommandQueue(config.QueueSize)
	}

	return w, nil
}

// Config returns the configuration the world was built with
func (w *World) Config() Config {
	return w.config
}

// FrameNumber returns the number of the last emitted frame, 0 before the first tick
func (w *World) FrameNumber() uint64 {
	return w.frameNumber
}

// Stats returns the counters of the last tick
func (w *World) Stats() Stats {
	return w.stats
}

// Commands returns the inbox producers write to
func (w *World) Commands() *CommandQueue {
	return w.queue
}

// Enqueue queues a command for the next tick, it fails with ErrQueueFull
// instead of blocking. Safe to call from any goroutine.
func (w *World) Enqueue(cmd Command) error {
	return w.queue.Enqueue(cmd)
}

// Tick advances the world by one frame: pending commands, per-tick forces,
// then Substeps sub-steps of motion and collisions, then a snapshot.
func (w *World) Tick() Frame {
	w.stats = Stats{}

	w.applyCommands()
	w.integrateForces()

	h := 1.0 / float64(w.config.Substeps)
	for i := 0; i < w.config.Substeps; i++ {
		w.integrate(h)
		w.bounceWalls()

		pairs := BroadPhase(w.spatialGrid, w.Circles)
		w.stats.Candidates += len(pairs)
		w.stats.PairContacts += NarrowPhase(pairs, w.Circles)
		w.stats.ObstacleContacts += ResolveObstacles(w.Circles, w.StaticCircles, w.StaticRectangles, w.config.Elasticity)

		w.contain()
	}

	w.frameNumber++
	frame := w.snapshot()

	w.Events.flush()

	return frame
}

func (w *World) applyCommands() {
	cmds := w.queue.Drain()
	for _, cmd := range cmds {
		cmd.apply(w)
	}

	w.stats.Commands = len(cmds)
	if len(cmds) > 0 {
		w.logger.Debug("commands applied",
			zap.Int("count", len(cmds)),
			zap.Uint64("frame", w.frameNumber+1),
		)
	}
}

// integrateForces applies drag and size decay, then removes the circles
// that became too small
func (w *World) integrateForces() {
	for i := range w.Circles {
		circle := &w.Circles[i]

		switch w.config.Damping {
		case DampingAir:
			circle.ApplyAirResistance(w.config.Drag)
		default:
			circle.ApplyDamping(w.config.Drag)
		}
		circle.Shrink(w.config.RadiusDecay)
	}

	n := 0
	for _, circle := range w.Circles {
		if circle.Radius < w.config.MinRadius {
			w.Events.emit(CircleExpiredEvent{Circle: circle})
			continue
		}
		w.Circles[n] = circle
		n++
	}
	clear(w.Circles[n:])
	w.stats.Expired = len(w.Circles) - n
	w.Circles = w.Circles[:n]

	if w.stats.Expired > 0 {
		w.logger.Debug("circles expired",
			zap.Int("count", w.stats.Expired),
			zap.Int("remaining", n),
		)
	}
}

// addObstacle files a static body in the collection of its shape
func (w *World) addObstacle(obstacle actor.Obstacle) {
	switch obstacle.ShapeType() {
	case actor.ShapeTypeCircle:
		w.StaticCircles = append(w.StaticCircles, obstacle.(actor.StaticCircle))
	case actor.ShapeTypeRectangle:
		w.StaticRectangles = append(w.StaticRectangles, obstacle.(actor.StaticRectangle))
	default:
		return
	}
	w.Events.emit(ObstacleAddedEvent{Obstacle: obstacle})
}

func (w *World) integrate(h float64) {
	for i := range w.Circles {
		w.Circles[i].Integrate(h, w.config.Gravity)
	}
}

func (w *World) bounceWalls() {
	for i := range w.Circles {
		w.Circles[i].BounceWalls(w.Width, w.Height, w.config.Elasticity)
	}
}

// contain moves back inside the walls the circles pushed out by a collision
func (w *World) contain() {
	for i := range w.Circles {
		w.Circles[i].Contain(w.Width, w.Height)
	}
}

func (w *World) snapshot() Frame {
	return Frame{
		FrameNumber:      w.frameNumber,
		Width:            w.Width,
		Height:           w.Height,
		Circles:          append([]actor.DynamicCircle(nil), w.Circles...),
		StaticCircles:    append([]actor.StaticCircle(nil), w.StaticCircles...),
		StaticRectangles: append([]actor.StaticRectangle(nil), w.StaticRectangles...),
	}
}

func (w *World) String() string {
	return fmt.Sprintf("World{frame: %d, size: %vx%v, circles: %d, obstacles: %d}",
		w.frameNumber, w.Width, w.Height, len(w.Circles), len(w.StaticCircles)+len(w.StaticRectangles))
}
