package main

import (
	"fmt"

	"github.com/akmonengine/droplet"
	"github.com/akmonengine/droplet/driver"
	"github.com/akmonengine/droplet/scene"
)

func main() {
	config := droplet.DefaultConfig()
	world, err := droplet.NewWorld(config)
	if err != nil {
		panic(err)
	}

	if err := scene.Enqueue(world, scene.CenteredBox(config.Width, config.Height, 200, 20)); err != nil {
		panic(err)
	}

	expired := 0
	world.Events.Subscribe(droplet.CIRCLE_EXPIRED, func(event droplet.Event) {
		expired++
	})

	d := driver.New(world)
	d.AddHook(scene.NewSpawner(world, 10, scene.DefaultTemplate).OnFrame)
	d.Subscribe(func(frame droplet.Frame) {
		if frame.FrameNumber%30 != 0 {
			return
		}

		fmt.Printf("frame %4d: %3d circles", frame.FrameNumber, len(frame.Circles))
		if len(frame.Circles) > 0 {
			first := frame.Circles[0]
			fmt.Printf(", oldest at (%.1f, %.1f) r=%.2f v=(%.2f, %.2f)",
				first.Position.X(), first.Position.Y(), first.Radius, first.Velocity.X(), first.Velocity.Y())
		}
		fmt.Println()
	})

	for i := 0; i < 300; i++ {
		d.Step()
	}

	stats := world.Stats()
	fmt.Printf("\n%v\nlast tick: %d candidate pairs, %d pair contacts, %d obstacle contacts, %d circles expired so far\n",
		world, stats.Candidates, stats.PairContacts, stats.ObstacleContacts, expired)
}
