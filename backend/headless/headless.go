// Package headless is a window-less backend. Input is scripted and presented
// frames are recorded, which makes it the backend of choice for tests and
// the stress tool.
package headless

import (
	"errors"
	"sync"

	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/render"
)

var ErrClosed = errors.New("headless backend closed")

type scheduled struct {
	poll   uint64
	events []input.Event
}

// Backend implements both the engine's input source and its sink.
type Backend struct {
	mu        sync.Mutex
	queue     []input.Event
	script    []scheduled
	polls     uint64
	pointer   geom.Vec2
	frames    uint64
	last      *render.Frame
	presented map[render.CommandType]int
	closed    bool
	inPresent bool
	overlaps  int
	late      int

	// OnPresent, when set, runs inside Present before the frame is recorded.
	// A non-nil error is returned from Present.
	OnPresent func(f *render.Frame) error
}

func New() *Backend {
	return &Backend{presented: make(map[render.CommandType]int)}
}

// Push queues events for the next Poll.
func (b *Backend) Push(events ...input.Event) {
	b.mu.Lock()
	b.queue = append(b.queue, events...)
	b.mu.Unlock()
}

// Schedule queues events for the n-th call to Poll, counting from 1.
func (b *Backend) Schedule(poll uint64, events ...input.Event) {
	b.mu.Lock()
	b.script = append(b.script, scheduled{poll: poll, events: events})
	b.mu.Unlock()
}

// MovePointer sets the pointer position reported to the logic loop.
func (b *Backend) MovePointer(x, y float64) {
	b.mu.Lock()
	b.pointer = geom.V(x, y)
	b.mu.Unlock()
}

func (b *Backend) Poll() []input.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.polls++
	rest := b.script[:0]
	for _, s := range b.script {
		if s.poll <= b.polls {
			b.queue = append(b.queue, s.events...)
		} else {
			rest = append(rest, s)
		}
	}
	b.script = rest

	out := b.queue
	b.queue = nil
	return out
}

func (b *Backend) Pointer() geom.Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pointer
}

// Polls returns how many times Poll was called.
func (b *Backend) Polls() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polls
}

func (b *Backend) Present(f *render.Frame) error {
	b.mu.Lock()
	if b.closed {
		b.late++
		b.mu.Unlock()
		return ErrClosed
	}
	b.inPresent = true
	hook := b.OnPresent
	b.mu.Unlock()

	var err error
	if hook != nil {
		err = hook(f)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inPresent = false
	if err != nil {
		return err
	}
	b.frames++
	b.last = f
	for _, cmd := range f.Commands {
		b.presented[cmd.Type]++
	}
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if b.inPresent {
		b.overlaps++
	}
	b.closed = true
	return nil
}

// Frames returns the number of frames successfully presented.
func (b *Backend) Frames() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// LastFrame returns the most recently presented frame.
func (b *Backend) LastFrame() *render.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Presented returns how many commands of type t were presented in total.
func (b *Backend) Presented(t render.CommandType) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presented[t]
}

func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Violations reports shutdown ordering faults: Close racing an in-flight
// Present, and Present calls made after Close.
func (b *Backend) Violations() (overlapping, late int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlaps, b.late
}
