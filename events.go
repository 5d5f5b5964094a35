package droplet

import "github.com/akmonengine/droplet/actor"

const (
	CIRCLE_ADDED EventType = iota
	CIRCLE_EXPIRED
	OBSTACLE_ADDED
	WORLD_RESIZED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

type CircleAddedEvent struct {
	Circle actor.DynamicCircle
}

func (e CircleAddedEvent) Type() EventType { return CIRCLE_ADDED }

// CircleExpiredEvent carries the circle as it was when it fell under the minimum radius
type CircleExpiredEvent struct {
	Circle actor.DynamicCircle
}

func (e CircleExpiredEvent) Type() EventType { return CIRCLE_EXPIRED }

type ObstacleAddedEvent struct {
	Obstacle actor.Obstacle
}

func (e ObstacleAddedEvent) Type() EventType { return OBSTACLE_ADDED }

type WorldResizedEvent struct {
	PreviousWidth  float64
	PreviousHeight float64
	Width          float64
	Height         float64
}

func (e WorldResizedEvent) Type() EventType { return WORLD_RESIZED }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers what happens during a tick and delivers it to the
// listeners once the tick is over
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 64),
	}
}

// Subscribe adds a listener for an event type.
// Listeners run on the goroutine calling World.Tick.
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// emit buffers an event, events nobody listens to are dropped right away
func (e *Events) emit(event Event) {
	if len(e.listeners[event.Type()]) == 0 {
		return
	}
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	clear(e.buffer)
	e.buffer = e.buffer[:0]
}
