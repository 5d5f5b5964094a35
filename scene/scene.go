// Package scene builds obstacle layouts and feeds circles into a world.
package scene

import "github.com/akmonengine/droplet"

// RoundedRectangle returns the commands building a solid rectangle with
// rounded corners: a horizontal and a vertical rectangle forming a cross,
// plus one static circle in each corner.
// (x, y) is the top-left corner of the bounding box.
func RoundedRectangle(x, y, width, height, borderRadius float64) []droplet.Command {
	return []droplet.Command{
		droplet.AddStaticRectangle{X: x + borderRadius, Y: y, Width: width - 2*borderRadius, Height: height},
		droplet.AddStaticRectangle{X: x, Y: y + borderRadius, Width: width, Height: height - 2*borderRadius},

		droplet.AddStaticCircle{X: x + borderRadius, Y: y + borderRadius, Radius: borderRadius},
		droplet.AddStaticCircle{X: x + width - borderRadius, Y: y + borderRadius, Radius: borderRadius},
		droplet.AddStaticCircle{X: x + borderRadius, Y: y + height - borderRadius, Radius: borderRadius},
		droplet.AddStaticCircle{X: x + width - borderRadius, Y: y + height - borderRadius, Radius: borderRadius},
	}
}

// CenteredBox is a size x size rounded rectangle in the middle of a world
func CenteredBox(worldWidth, worldHeight, size, borderRadius float64) []droplet.Command {
	return RoundedRectangle(worldWidth/2-size/2, worldHeight/2-size/2, size, size, borderRadius)
}

// Enqueue sends every command, stopping at the first refused one
func Enqueue(queue droplet.Enqueuer, cmds []droplet.Command) error {
	for _, cmd := range cmds {
		if err := queue.Enqueue(cmd); err != nil {
			return err
		}
	}

	return nil
}
