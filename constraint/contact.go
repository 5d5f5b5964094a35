package constraint

import (
	"math"

	"github.com/akmonengine/droplet/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ObstacleContact is a dynamic circle overlapping a static body.
// Normal points from the obstacle towards the circle.
type ObstacleContact struct {
	Body        *actor.DynamicCircle
	Normal      mgl64.Vec2
	Penetration float64
}

// SolvePosition pushes the circle out of the obstacle by the full penetration
func (c *ObstacleContact) SolvePosition() {
	c.Body.Position = c.Body.Position.Add(c.Normal.Mul(c.Penetration))
}

// SolveVelocity reflects the velocity about the contact normal while the
// circle still moves into the obstacle
func (c *ObstacleContact) SolveVelocity(elasticity float64) {
	if c.Body.Velocity.Dot(c.Normal) >= 0 {
		return
	}

	c.Body.Velocity = Reflect(c.Body.Velocity, c.Normal, elasticity)
}

// CollideStaticCircle tests a dynamic circle against a static circle
func CollideStaticCircle(body *actor.DynamicCircle, obstacle actor.StaticCircle) (ObstacleContact, bool) {
	delta := body.Position.Sub(obstacle.Position)
	minDistance := body.Radius + obstacle.Radius
	if minDistance <= 0 {
		return ObstacleContact{}, false
	}
	distanceSq := delta.LenSqr()

	if distanceSq >= minDistance*minDistance {
		return ObstacleContact{}, false
	}

	distance := math.Sqrt(distanceSq)
	normal := mgl64.Vec2{0, -1}
	if distance > CoincidenceEpsilon {
		normal = delta.Mul(1.0 / distance)
	}

	return ObstacleContact{
		Body:        body,
		Normal:      normal,
		Penetration: minDistance - distance,
	}, true
}

// CollideStaticRectangle tests a dynamic circle against an axis-aligned rectangle,
// using the closest point of the rectangle to the circle center.
func CollideStaticRectangle(body *actor.DynamicCircle, obstacle actor.StaticRectangle) (ObstacleContact, bool) {
	aabb := obstacle.GetAABB()

	if aabb.ContainsPointStrict(body.Position) {
		return insideRectangle(body, aabb), true
	}

	closest := aabb.ClosestPoint(body.Position)
	delta := body.Position.Sub(closest)
	distanceSq := delta.LenSqr()

	if distanceSq >= body.Radius*body.Radius {
		return ObstacleContact{}, false
	}

	distance := math.Sqrt(distanceSq)
	if distance <= CoincidenceEpsilon {
		// center lies on the boundary itself
		return insideRectangle(body, aabb), true
	}

	return ObstacleContact{
		Body:        body,
		Normal:      delta.Mul(1.0 / distance),
		Penetration: body.Radius - distance,
	}, true
}

// insideRectangle picks the axis along which the center is relatively the
// furthest from the rectangle middle and pushes out through that side.
// This is a heuristic, nested or stacked bodies may jitter.
func insideRectangle(body *actor.DynamicCircle, aabb actor.AABB) ObstacleContact {
	offset := body.Position.Sub(aabb.Center())
	halfWidth := (aabb.Max.X() - aabb.Min.X()) / 2
	halfHeight := (aabb.Max.Y() - aabb.Min.Y()) / 2

	if math.Abs(offset.X())*halfHeight > math.Abs(offset.Y())*halfWidth {
		return ObstacleContact{
			Body:        body,
			Normal:      mgl64.Vec2{sign(offset.X()), 0},
			Penetration: halfWidth - math.Abs(offset.X()) + body.Radius,
		}
	}

	return ObstacleContact{
		Body:        body,
		Normal:      mgl64.Vec2{0, sign(offset.Y())},
		Penetration: halfHeight - math.Abs(offset.Y()) + body.Radius,
	}
}

// ResolveStaticCircle pushes the circle out of a static circle and bounces it.
// It reports whether a contact was found.
func ResolveStaticCircle(body *actor.DynamicCircle, obstacle actor.StaticCircle, elasticity float64) bool {
	contact, ok := CollideStaticCircle(body, obstacle)
	if !ok {
		return false
	}

	solve(&contact, elasticity)
	return true
}

// ResolveStaticRectangle pushes the circle out of a static rectangle and bounces it.
// It reports whether a contact was found.
func ResolveStaticRectangle(body *actor.DynamicCircle, obstacle actor.StaticRectangle, elasticity float64) bool {
	contact, ok := CollideStaticRectangle(body, obstacle)
	if !ok {
		return false
	}

	solve(&contact, elasticity)
	return true
}

// ResolveCircles separates two overlapping dynamic circles and, when they
// approach each other, exchanges the normal components of their velocities
// with a perfectly elastic collision using radius² as the mass.
// Unlike the textbook exchange, a pair already moving apart keeps its
// velocities and only has its overlap corrected.
// Separated circles are left untouched, so the same pair can be resolved
// any number of times.
// Passing the same circle twice is a programming error.
func ResolveCircles(circleA, circleB *actor.DynamicCircle) bool {
	if circleA == circleB {
		panic("constraint: circle resolved against itself")
	}

	delta := circleB.Position.Sub(circleA.Position)
	distance := delta.Len()
	minDistance := circleA.Radius + circleB.Radius

	if distance >= minDistance {
		return false
	}

	if distance <= CoincidenceEpsilon {
		// Same center, split along x
		separation := minDistance - distance + CoincidenceEpsilon
		circleA.Position[0] -= separation / 2
		circleB.Position[0] += separation / 2

		delta = circleB.Position.Sub(circleA.Position)
		distance = delta.Len()
	}

	normal := delta.Mul(1.0 / distance)
	tangent := mgl64.Vec2{-normal.Y(), normal.X()}

	vAn := normal.Dot(circleA.Velocity)
	vAt := tangent.Dot(circleA.Velocity)
	vBn := normal.Dot(circleB.Velocity)
	vBt := tangent.Dot(circleB.Velocity)

	// Only approaching circles exchange momentum, a separating pair just gets its overlap corrected
	if vAn > vBn {
		mA := circleA.Mass()
		mB := circleB.Mass()

		vAnNew := (vAn*(mA-mB) + 2*mB*vBn) / (mA + mB)
		vBnNew := (vBn*(mB-mA) + 2*mA*vAn) / (mA + mB)

		circleA.Velocity = normal.Mul(vAnNew).Add(tangent.Mul(vAt))
		circleB.Velocity = normal.Mul(vBnNew).Add(tangent.Mul(vBt))
	}

	overlap := 0.5 * (minDistance - distance)
	if overlap > 0 {
		circleA.Position = circleA.Position.Sub(normal.Mul(overlap))
		circleB.Position = circleB.Position.Add(normal.Mul(overlap))
	}

	return true
}
