package scene

import (
	"fmt"

	"github.com/akmonengine/droplet"
)

const DEFAULT_SPAWN_EVERY = 10

// DefaultTemplate drops a circle from the top-left corner, moving right
var DefaultTemplate = droplet.AddCircle{X: 10, Y: 10, Radius: 10, VX: 10, VY: 0}

// Spawner adds a circle every N frames. OnFrame matches driver.Hook.
type Spawner struct {
	queue    droplet.Enqueuer
	every    uint64
	template droplet.AddCircle
	spawned  uint64
}

// NewSpawner creates a spawner enqueuing template on every frame number
// multiple of every. A zero every falls back to DEFAULT_SPAWN_EVERY.
func NewSpawner(queue droplet.Enqueuer, every uint64, template droplet.AddCircle) *Spawner {
	if every == 0 {
		every = DEFAULT_SPAWN_EVERY
	}

	return &Spawner{
		queue:    queue,
		every:    every,
		template: template,
	}
}

func (s *Spawner) OnFrame(frame droplet.Frame) error {
	if frame.FrameNumber%s.every != 0 {
		return nil
	}

	if err := s.queue.Enqueue(s.template); err != nil {
		return fmt.Errorf("spawn at frame %d: %w", frame.FrameNumber, err)
	}
	s.spawned++

	return nil
}

// Spawned returns how many circles were accepted by the queue
func (s *Spawner) Spawned() uint64 {
	return s.spawned
}
