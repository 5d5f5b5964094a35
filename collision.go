package droplet

import (
	"github.com/akmonengine/droplet/actor"
	"github.com/akmonengine/droplet/constraint"
)

// BroadPhase rebuilds the grid from the current circle positions and
// returns the candidate pairs
func BroadPhase(spatialGrid *SpatialGrid, circles []actor.DynamicCircle) []Pair {
	spatialGrid.Clear()
	for i := range circles {
		spatialGrid.Insert(i, circles[i].GetAABB())
	}

	return spatialGrid.FindPairs()
}

// NarrowPhase resolves every candidate pair and returns the number of contacts.
// Pairs listed more than once are harmless: resolution is a no-op on a
// separated pair.
func NarrowPhase(pairs []Pair, circles []actor.DynamicCircle) int {
	contacts := 0
	for _, pair := range pairs {
		if constraint.ResolveCircles(&circles[pair.A], &circles[pair.B]) {
			contacts++
		}
	}

	return contacts
}

// ResolveObstacles tests every circle against every static body.
// Obstacle counts are small, no broad phase is used here: static circles
// are only skipped when the bounding boxes are apart.
func ResolveObstacles(circles []actor.DynamicCircle, staticCircles []actor.StaticCircle, staticRectangles []actor.StaticRectangle, elasticity float64) int {
	contacts := 0
	for i := range circles {
		circle := &circles[i]

		for _, obstacle := range staticCircles {
			if !circle.GetAABB().Overlaps(obstacle.GetAABB()) {
				continue
			}
			if constraint.ResolveStaticCircle(circle, obstacle, elasticity) {
				contacts++
			}
		}
		for _, obstacle := range staticRectangles {
			if constraint.ResolveStaticRectangle(circle, obstacle, elasticity) {
				contacts++
			}
		}
	}

	return contacts
}
