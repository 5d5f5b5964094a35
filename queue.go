package droplet

import "errors"

// ErrQueueFull is returned to a producer when the command queue has no room left.
// The command is dropped, the simulation is never blocked.
var ErrQueueFull = errors.New("droplet: command queue is full")

// CommandQueue is a bounded FIFO inbox, safe for concurrent producers and a
// single consumer (the world tick)
type CommandQueue struct {
	commands chan Command
}

// NewCommandQueue creates a queue holding at most size commands
func NewCommandQueue(size int) *CommandQueue {
	return &CommandQueue{commands: make(chan Command, size)}
}

// Enqueue adds a command without blocking
func (q *CommandQueue) Enqueue(cmd Command) error {
	select {
	case q.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drain returns the backlog present when it is called, in arrival order.
// Commands enqueued while draining are left for the next call.
func (q *CommandQueue) Drain() []Command {
	n := len(q.commands)
	if n == 0 {
		return nil
	}

	cmds := make([]Command, 0, n)
	for i := 0; i < n; i++ {
		select {
		case cmd := <-q.commands:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}

	return cmds
}

// Len returns the number of pending commands
func (q *CommandQueue) Len() int {
	return len(q.commands)
}

// Cap returns the queue capacity
func (q *CommandQueue) Cap() int {
	return cap(q.commands)
}
