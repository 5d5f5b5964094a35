package constraint

import (
	"github.com/go-gl/mathgl/mgl64"
)

// CoincidenceEpsilon is the distance under which two centers are treated as
// the same point and a fallback axis is used instead of the line of centers
const CoincidenceEpsilon = 1e-8

// Constraint is a detected contact that corrects positions then velocities
type Constraint interface {
	SolvePosition()
	SolveVelocity(elasticity float64)
}

func solve(c Constraint, elasticity float64) {
	c.SolvePosition()
	c.SolveVelocity(elasticity)
}

// Reflect mirrors v about the surface with normal n, scaling the reflected
// part by the elasticity coefficient: v' = v - 2(v·n)n·e
func Reflect(v, n mgl64.Vec2, elasticity float64) mgl64.Vec2 {
	return v.Sub(n.Mul(2 * v.Dot(n) * elasticity))
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
