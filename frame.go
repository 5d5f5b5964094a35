package droplet

import (
	"slices"

	"github.com/akmonengine/droplet/actor"
)

// Frame is an independent copy of the world state at the end of a tick.
// The world never touches a frame once emitted, so it can be read from any goroutine.
type Frame struct {
	FrameNumber      uint64                  `json:"n" msgpack:"n"`
	Width            float64                 `json:"w" msgpack:"w"`
	Height           float64                 `json:"h" msgpack:"h"`
	Circles          []actor.DynamicCircle   `json:"c" msgpack:"c"`
	StaticCircles    []actor.StaticCircle    `json:"sc" msgpack:"sc"`
	StaticRectangles []actor.StaticRectangle `json:"sr" msgpack:"sr"`
}

// Clone returns a deep copy of the frame
func (f Frame) Clone() Frame {
	return Frame{
		FrameNumber:      f.FrameNumber,
		Width:            f.Width,
		Height:           f.Height,
		Circles:          slices.Clone(f.Circles),
		StaticCircles:    slices.Clone(f.StaticCircles),
		StaticRectangles: slices.Clone(f.StaticRectangles),
	}
}
