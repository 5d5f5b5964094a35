package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// ContainsPointStrict checks if a point is inside the AABB, edges excluded
func (a AABB) ContainsPointStrict(point mgl64.Vec2) bool {
	return point.X() > a.Min.X() && point.X() < a.Max.X() &&
		point.Y() > a.Min.Y() && point.Y() < a.Max.Y()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// ClosestPoint clamps each coordinate of point to the box extents
func (a AABB) ClosestPoint(point mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		math.Max(a.Min.X(), math.Min(point.X(), a.Max.X())),
		math.Max(a.Min.Y(), math.Min(point.Y(), a.Max.Y())),
	}
}

// Center returns the middle of the box
func (a AABB) Center() mgl64.Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}
