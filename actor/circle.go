package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// DynamicCircle is a moving disc. It is integrated every sub-step, shrinks
// every tick and is removed from the world once its radius drops below the
// configured minimum.
type DynamicCircle struct {
	Position mgl64.Vec2 `json:"p" msgpack:"p"`
	Velocity mgl64.Vec2 `json:"v" msgpack:"v"`
	Radius   float64    `json:"r" msgpack:"r"`
}

// NewDynamicCircle creates a dynamic circle. No validation is done on the
// radius: a circle below the minimum radius simply expires on the next tick.
func NewDynamicCircle(position mgl64.Vec2, radius float64, velocity mgl64.Vec2) DynamicCircle {
	return DynamicCircle{
		Position: position,
		Velocity: velocity,
		Radius:   radius,
	}
}

// GetAABB returns the bounding box center ± radius
func (c *DynamicCircle) GetAABB() AABB {
	extent := mgl64.Vec2{c.Radius, c.Radius}

	return AABB{
		Min: c.Position.Sub(extent),
		Max: c.Position.Add(extent),
	}
}

// Mass is the area based mass proxy used between dynamic circles
func (c *DynamicCircle) Mass() float64 {
	return c.Radius * c.Radius
}

// ApplyDamping scales the velocity by (1 - factor)
func (c *DynamicCircle) ApplyDamping(factor float64) {
	c.Velocity = c.Velocity.Mul(1.0 - factor)
}

// ApplyAirResistance removes a drag force proportional to the speed,
// decomposed along the current direction of motion
func (c *DynamicCircle) ApplyAirResistance(density float64) {
	speed := c.Velocity.Len()
	if speed == 0 {
		return
	}

	resistance := speed * density
	c.Velocity = c.Velocity.Sub(c.Velocity.Mul(resistance / speed))
}

// Shrink multiplies the radius by factor
func (c *DynamicCircle) Shrink(factor float64) {
	c.Radius *= factor
}

// Integrate advances the circle by one sub-step of length h (a fraction of a tick).
// Gravity is applied to the vertical velocity before the position update.
func (c *DynamicCircle) Integrate(h float64, gravity float64) {
	c.Velocity[1] += gravity * h
	c.Position = c.Position.Add(c.Velocity.Mul(h))
}

// BounceWalls clamps the circle inside [0,width]x[0,height] and reverses the
// velocity on each axis where the edge crossed the boundary, keeping only
// the elasticity fraction. It reports whether any wall was hit.
func (c *DynamicCircle) BounceWalls(width, height, elasticity float64) bool {
	hit := false

	if c.Position.X()-c.Radius < 0 {
		c.Position[0] = c.Radius
		c.Velocity[0] = -c.Velocity[0] * elasticity
		hit = true
	}
	if c.Position.X()+c.Radius > width {
		c.Position[0] = width - c.Radius
		c.Velocity[0] = -c.Velocity[0] * elasticity
		hit = true
	}
	if c.Position.Y()-c.Radius < 0 {
		c.Position[1] = c.Radius
		c.Velocity[1] = -c.Velocity[1] * elasticity
		hit = true
	}
	if c.Position.Y()+c.Radius > height {
		c.Position[1] = height - c.Radius
		c.Velocity[1] = -c.Velocity[1] * elasticity
		hit = true
	}

	return hit
}

// Contain clamps the center inside the walls without touching the velocity
func (c *DynamicCircle) Contain(width, height float64) {
	c.Position[0] = max(c.Radius, min(c.Position.X(), width-c.Radius))
	c.Position[1] = max(c.Radius, min(c.Position.Y(), height-c.Radius))
}
