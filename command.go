package droplet

import (
	"github.com/akmonengine/droplet/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Command is a mutation request applied to the world at the start of a tick.
// Fields are not validated.
type Command interface {
	apply(w *World)
}

// Enqueuer accepts commands without blocking
type Enqueuer interface {
	Enqueue(cmd Command) error
}

// AddCircle inserts one dynamic circle
type AddCircle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
}

func (c AddCircle) apply(w *World) {
	circle := actor.NewDynamicCircle(mgl64.Vec2{c.X, c.Y}, c.Radius, mgl64.Vec2{c.VX, c.VY})
	w.Circles = append(w.Circles, circle)
	w.Events.emit(CircleAddedEvent{Circle: circle})
}

// AddStaticCircle inserts one immutable circular obstacle
type AddStaticCircle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

func (c AddStaticCircle) apply(w *World) {
	obstacle := actor.StaticCircle{Position: mgl64.Vec2{c.X, c.Y}, Radius: c.Radius}
	w.addObstacle(obstacle)
}

// AddStaticRectangle inserts one immutable axis-aligned obstacle, X and Y being its top-left corner
type AddStaticRectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c AddStaticRectangle) apply(w *World) {
	obstacle := actor.StaticRectangle{Position: mgl64.Vec2{c.X, c.Y}, Width: c.Width, Height: c.Height}
	w.addObstacle(obstacle)
}

// Resize updates the world bounds used by the wall collisions
type Resize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c Resize) apply(w *World) {
	event := WorldResizedEvent{
		PreviousWidth:  w.Width,
		PreviousHeight: w.Height,
		Width:          c.Width,
		Height:         c.Height,
	}
	w.Width, w.Height = c.Width, c.Height
	w.Events.emit(event)
}
