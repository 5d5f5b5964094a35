package droplet

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestWorld(t *testing.T, config Config) *World {
	t.Helper()

	world, err := NewWorld(config)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	return world
}

func mustEnqueue(t *testing.T, world *World, cmds ...Command) {
	t.Helper()

	for _, cmd := range cmds {
		if err := world.Enqueue(cmd); err != nil {
			t.Fatalf("Enqueue(%T) error = %v", cmd, err)
		}
	}
}

func TestNewWorld_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.Substeps = 0

	world, err := NewWorld(config)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewWorld() error = %v, want ErrInvalidConfig", err)
	}
	if world != nil {
		t.Error("NewWorld() should not return a world on error")
	}
}

func TestTick_FrameNumberIncrements(t *testing.T) {
	world := newTestWorld(t, DefaultConfig())

	if world.FrameNumber() != 0 {
		t.Fatalf("FrameNumber() before first tick = %d, want 0", world.FrameNumber())
	}

	for i := uint64(1); i <= 100; i++ {
		if i%10 == 0 {
			mustEnqueue(t, world, AddCircle{X: 100, Y: 100, Radius: 10, VX: 3})
		}
		frame := world.Tick()
		if frame.FrameNumber != i {
			t.Fatalf("frame number = %d, want %d", frame.FrameNumber, i)
		}
	}
}

func TestTick_CommandsAppliedInOrder(t *testing.T) {
	world := newTestWorld(t, DefaultConfig())

	mustEnqueue(t, world,
		Resize{Width: 100, Height: 100},
		AddCircle{X: 20, Y: 20, Radius: 5},
		Resize{Width: 200, Height: 300},
		AddCircle{X: 150, Y: 250, Radius: 7},
		AddStaticCircle{X: 50, Y: 50, Radius: 3},
		AddStaticRectangle{X: 0, Y: 280, Width: 200, Height: 20},
	)

	frame := world.Tick()

	if frame.Width != 200 || frame.Height != 300 {
		t.Errorf("bounds = %vx%v, want 200x300", frame.Width, frame.Height)
	}
	if len(frame.Circles) != 2 {
		t.Fatalf("circles = %d, want 2", len(frame.Circles))
	}
	if frame.Circles[0].Position.X() > 100 || frame.Circles[1].Position.X() < 100 {
		t.Errorf("circles not in arrival order: %v", frame.Circles)
	}
	if len(frame.StaticCircles) != 1 || len(frame.StaticRectangles) != 1 {
		t.Errorf("obstacles = %d circles, %d rectangles, want 1 and 1", len(frame.StaticCircles), len(frame.StaticRectangles))
	}
	if world.Stats().Commands != 6 {
		t.Errorf("Stats().Commands = %d, want 6", world.Stats().Commands)
	}
}

func TestTick_QueueOverflow(t *testing.T) {
	config := DefaultConfig()
	config.QueueSize = 2
	world := newTestWorld(t, config)

	mustEnqueue(t, world, AddCircle{X: 100, Y: 100, Radius: 10}, AddCircle{X: 200, Y: 100, Radius: 10})
	if err := world.Enqueue(AddCircle{X: 300, Y: 100, Radius: 10}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Enqueue on a full queue error = %v, want ErrQueueFull", err)
	}

	frame := world.Tick()
	if len(frame.Circles) != 2 {
		t.Errorf("circles = %d, want 2", len(frame.Circles))
	}

	// the backlog is gone, producers can enqueue again
	mustEnqueue(t, world, AddCircle{X: 300, Y: 100, Radius: 10})
}

func TestTick_CirclesStayInBounds(t *testing.T) {
	world := newTestWorld(t, DefaultConfig())
	rng := rand.New(rand.NewPCG(1, 2))

	for range 60 {
		mustEnqueue(t, world, AddCircle{
			X:      rng.Float64() * 800,
			Y:      rng.Float64() * 480,
			Radius: 5 + rng.Float64()*10,
			VX:     (rng.Float64() - 0.5) * 30,
			VY:     (rng.Float64() - 0.5) * 30,
		})
	}
	mustEnqueue(t, world,
		AddStaticCircle{X: 400, Y: 240, Radius: 40},
		AddStaticRectangle{X: 100, Y: 300, Width: 150, Height: 40},
	)

	for range 300 {
		frame := world.Tick()
		for i, c := range frame.Circles {
			if c.Position.X() < c.Radius || c.Position.X() > frame.Width-c.Radius ||
				c.Position.Y() < c.Radius || c.Position.Y() > frame.Height-c.Radius {
				t.Fatalf("frame %d: circle %d out of bounds: %v", frame.FrameNumber, i, c)
			}
			if math.IsNaN(c.Position.X()) || math.IsNaN(c.Velocity.Y()) {
				t.Fatalf("frame %d: circle %d has NaN state: %v", frame.FrameNumber, i, c)
			}
		}
	}
}

func TestTick_BounceOnFloorRectangle(t *testing.T) {
	world := newTestWorld(t, DefaultConfig())
	mustEnqueue(t, world,
		AddCircle{X: 10, Y: 10, Radius: 10, VX: 10, VY: 0},
		AddStaticRectangle{X: 0, Y: 400, Width: 800, Height: 80},
	)

	var apexes []float64
	var bounces int
	previousVY := 0.0

	for range 1000 {
		frame := world.Tick()
		if len(frame.Circles) == 0 {
			break
		}

		circle := frame.Circles[0]
		if circle.Position.Y()+circle.Radius > 400+1e-9 {
			t.Fatalf("frame %d: circle penetrates the rectangle top edge: y=%v r=%v",
				frame.FrameNumber, circle.Position.Y(), circle.Radius)
		}

		vy := circle.Velocity.Y()
		if previousVY > 0 && vy < 0 && bounces < 3 {
			bounces++
			if math.Abs(vy) >= math.Abs(previousVY) {
				t.Errorf("bounce %d: speed after %v is not lower than before %v", bounces, math.Abs(vy), previousVY)
			}
		}
		if previousVY < 0 && vy >= 0 {
			apexes = append(apexes, circle.Position.Y())
		}
		previousVY = vy
	}

	if bounces < 3 {
		t.Fatalf("expected at least 3 bounces, got %d", bounces)
	}
	if len(apexes) < 2 {
		t.Fatalf("expected at least 2 apexes, got %d", len(apexes))
	}
	// y grows downwards: each apex is lower than the previous one
	if !(apexes[0] > 10 && apexes[1] > apexes[0]) {
		t.Errorf("apexes should get lower at every bounce: %v", apexes[:2])
	}
}

func TestTick_ExpiresBelowMinRadius(t *testing.T) {
	config := DefaultConfig()
	config.RadiusDecay = 0.5
	config.MinRadius = 0.5
	config.Gravity = 0
	world := newTestWorld(t, config)

	var expired []CircleExpiredEvent
	world.Events.Subscribe(CIRCLE_EXPIRED, func(event Event) {
		expired = append(expired, event.(CircleExpiredEvent))
	})

	mustEnqueue(t, world, AddCircle{X: 100, Y: 100, Radius: 1})

	frame := world.Tick()
	if len(frame.Circles) != 1 || frame.Circles[0].Radius != 0.5 {
		t.Fatalf("circle at exactly the minimum radius should survive, got %v", frame.Circles)
	}
	if len(expired) != 0 {
		t.Fatalf("no expiration expected yet, got %d", len(expired))
	}

	frame = world.Tick()
	if len(frame.Circles) != 0 {
		t.Errorf("circle should be removed on the next tick, got %v", frame.Circles)
	}
	if len(world.Circles) != 0 {
		t.Errorf("world still holds %d circles", len(world.Circles))
	}
	if len(expired) != 1 || expired[0].Circle.Radius != 0.25 {
		t.Errorf("expected one expiration event at radius 0.25, got %v", expired)
	}
	if world.Stats().Expired != 1 {
		t.Errorf("Stats().Expired = %d, want 1", world.Stats().Expired)
	}
}

func TestTick_AcceptsUnvalidatedCommands(t *testing.T) {
	world := newTestWorld(t, DefaultConfig())

	mustEnqueue(t, world,
		AddCircle{X: 100, Y: 100, Radius: -4},
		AddCircle{X: -500, Y: 5000, Radius: 10},
	)

	frame := world.Tick()
	if len(frame.Circles) != 1 {
		t.Fatalf("negative radius circle should expire, out of bounds one should stay: %v", frame.Circles)
	}

	circle := frame.Circles[0]
	if circle.Position.X() != circle.Radius || circle.Position.Y() != frame.Height-circle.Radius {
		t.Errorf("out of bounds circle should be clamped into the corner, got %v", circle.Position)
	}
}

func TestTick_ResizeGrow(t *testing.T) {
	world := newTestWorld(t, DefaultConfig())
	mustEnqueue(t, world, AddCircle{X: 400, Y: 470, Radius: 10})

	frame := world.Tick()
	resting := frame.Circles[0]
	if math.Abs(resting.Position.Y()-(480-resting.Radius)) > 1e-9 {
		t.Fatalf("circle should rest on the bottom wall, got %v", resting.Position)
	}

	mustEnqueue(t, world, Resize{Width: 1024, Height: 768})
	frame = world.Tick()

	if frame.Width != 1024 || frame.Height != 768 {
		t.Fatalf("bounds = %vx%v, want 1024x768", frame.Width, frame.Height)
	}

	circle := frame.Circles[0]
	if circle.Position.Y() <= resting.Position.Y() {
		t.Errorf("circle should start falling below the old boundary, y %v -> %v", resting.Position.Y(), circle.Position.Y())
	}
	// one tick of free fall, far from anything the new bounds would require
	if circle.Position.Y()-resting.Position.Y() > 1 {
		t.Errorf("circle displaced too far: y %v -> %v", resting.Position.Y(), circle.Position.Y())
	}
	if circle.Position.X() != resting.Position.X() {
		t.Errorf("horizontal position changed: %v -> %v", resting.Position.X(), circle.Position.X())
	}
}

func TestTick_ResizeShrink(t *testing.T) {
	config := DefaultConfig()
	config.Width, config.Height = 1024, 768
	config.Gravity = 0
	world := newTestWorld(t, config)

	mustEnqueue(t, world, AddCircle{X: 900, Y: 300, Radius: 10})
	world.Tick()

	mustEnqueue(t, world, Resize{Width: 800, Height: 480})
	frame := world.Tick()

	circle := frame.Circles[0]
	if circle.Position.X() != 800-circle.Radius {
		t.Errorf("circle should be clamped to the new right wall, x = %v", circle.Position.X())
	}
	if circle.Position.Y() != 300 {
		t.Errorf("vertical position should not change, y = %v", circle.Position.Y())
	}
}

func TestTick_FrameIsDetached(t *testing.T) {
	world := newTestWorld(t, DefaultConfig())
	mustEnqueue(t, world,
		AddCircle{X: 100, Y: 100, Radius: 10, VX: 5},
		AddStaticCircle{X: 300, Y: 300, Radius: 20},
		AddStaticRectangle{X: 0, Y: 400, Width: 100, Height: 10},
	)

	frame := world.Tick()

	// mutating the frame does not reach the world
	frame.Circles[0].Position = mgl64.Vec2{-1, -1}
	frame.StaticCircles[0].Radius = 0
	frame.StaticRectangles[0].Width = 0
	if world.Circles[0].Position == (mgl64.Vec2{-1, -1}) || world.StaticCircles[0].Radius != 20 || world.StaticRectangles[0].Width != 100 {
		t.Fatal("frame shares memory with the world")
	}

	// ticking does not reach a previous frame
	previous := world.Tick()
	saved := previous.Clone()
	world.Tick()
	if previous.Circles[0] != saved.Circles[0] || previous.FrameNumber != 2 {
		t.Error("previous frame changed after a tick")
	}
}

func TestTick_DampingModesAgree(t *testing.T) {
	run := func(mode DampingMode) mgl64.Vec2 {
		config := DefaultConfig()
		config.Damping = mode
		config.Gravity = 0
		world := newTestWorld(t, config)
		mustEnqueue(t, world, AddCircle{X: 400, Y: 240, Radius: 10, VX: 3, VY: -4})
		return world.Tick().Circles[0].Velocity
	}

	multiplicative := run(DampingMultiplicative)
	air := run(DampingAir)

	if !multiplicative.ApproxEqualThreshold(air, 1e-12) {
		t.Errorf("damping modes disagree: %v vs %v", multiplicative, air)
	}
	if math.Abs(multiplicative.Len()-5*(1-DEFAULT_DRAG)) > 1e-12 {
		t.Errorf("speed after damping = %v, want %v", multiplicative.Len(), 5*(1-DEFAULT_DRAG))
	}
}

func TestTick_CircleCollisionInWorld(t *testing.T) {
	config := DefaultConfig()
	config.Gravity = 0
	config.Drag = 0
	config.RadiusDecay = 1
	world := newTestWorld(t, config)

	mustEnqueue(t, world,
		AddCircle{X: 380, Y: 240, Radius: 10, VX: 5},
		AddCircle{X: 420, Y: 240, Radius: 10, VX: -5},
	)

	var frame Frame
	for range 5 {
		frame = world.Tick()
	}

	a, b := frame.Circles[0], frame.Circles[1]
	if a.Velocity.X() >= 0 || b.Velocity.X() <= 0 {
		t.Errorf("circles should have bounced off each other: %v %v", a.Velocity, b.Velocity)
	}
	if b.Position.Sub(a.Position).Len() < a.Radius+b.Radius-1e-9 {
		t.Errorf("circles still overlap: %v %v", a.Position, b.Position)
	}
}

func TestWorld_ConcurrentProducers(t *testing.T) {
	config := DefaultConfig()
	config.QueueSize = 16
	world := newTestWorld(t, config)

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for p := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				err := world.Enqueue(AddCircle{X: float64(100 + p*100), Y: float64(50 + i), Radius: 5})
				if err == nil {
					accepted.Add(1)
				} else if !errors.Is(err, ErrQueueFull) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}

	applied := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

loop:
	for {
		select {
		case <-done:
			break loop
		default:
			world.Tick()
			applied += world.Stats().Commands
		}
	}
	world.Tick()
	applied += world.Stats().Commands

	if int64(applied) != accepted.Load() {
		t.Errorf("applied %d commands, producers had %d accepted", applied, accepted.Load())
	}
}
