package synth

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrQueueFull means the engine is not keeping up with the command
	// queue. It is a configuration error: the queue is sized so that a
	// running engine never lets it fill.
	ErrQueueFull = errors.New("synth: command queue full")

	// ErrEngineGone means the engine stopped consuming commands.
	ErrEngineGone = errors.New("synth: engine is gone")
)

// DefaultQueueSize is the command queue capacity used when none is
// configured.
const DefaultQueueSize = 1024

// Broker connects the controller and the engine. Commands flow one way
// through ToEngine; views flow back through ToDisplay. The controller side
// never blocks: Send fails instead of waiting, Poll returns immediately.
//
// ToDisplay has capacity 1 and Publish replaces an unread view, so the
// display always sees the latest state and never a backlog.
type Broker struct {
	ToEngine  chan Command
	ToDisplay chan View

	gone      atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

func NewBroker(queueSize int) *Broker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Broker{
		ToEngine:  make(chan Command, queueSize),
		ToDisplay: make(chan View, 1),
		done:      make(chan struct{}),
	}
}

// Send queues cmds in order. It returns ErrEngineGone once the engine has
// closed the broker and ErrQueueFull if the queue cannot take a command;
// commands before the failing one stay queued.
func (b *Broker) Send(cmds ...Command) error {
	if b.gone.Load() {
		return ErrEngineGone
	}
	for i, c := range cmds {
		if !TrySend(b.ToEngine, c) {
			return fmt.Errorf("%w: capacity %d, dropped %d command(s)", ErrQueueFull, cap(b.ToEngine), len(cmds)-i)
		}
	}
	return nil
}

// Close is called by the engine when it stops consuming commands.
func (b *Broker) Close() {
	b.closeOnce.Do(func() {
		b.gone.Store(true)
		close(b.done)
	})
}

// Done is closed when the engine has stopped.
func (b *Broker) Done() <-chan struct{} {
	return b.done
}

// Publish offers a view to the display, replacing any unread one. Only the
// engine goroutine publishes.
func (b *Broker) Publish(v View) {
	for !TrySend(b.ToDisplay, v) {
		select {
		case <-b.ToDisplay:
		default:
		}
	}
}

// Poll returns the pending view, if any, without blocking.
func (b *Broker) Poll() (v View, ok bool) {
	select {
	case v = <-b.ToDisplay:
		return v, true
	default:
		return v, false
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}
