package event

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Posted wraps an event that arrived through a Bus, so the receiver knows to
// listen again.
type Posted struct {
	Event Event
}

// Bus carries events from goroutines outside the update loop (file
// watchers, plugins) into it.
type Bus struct {
	ch   chan Event
	done chan struct{}
	once sync.Once
}

// NewBus creates a bus buffering up to size events.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 64
	}
	return &Bus{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

// Post queues ev. It blocks while the buffer is full and returns false once
// the bus is closed.
func (b *Bus) Post(ev Event) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ch <- ev:
		return true
	case <-b.done:
		return false
	}
}

// PostContext is Post that also gives up once ctx is done.
func (b *Bus) PostContext(ctx context.Context, ev Event) bool {
	select {
	case <-b.done:
		return false
	case <-ctx.Done():
		return false
	default:
	}
	select {
	case b.ch <- ev:
		return true
	case <-b.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Listen returns a command that waits for the next posted event. The update
// loop must call Listen again after every Posted message it receives.
func (b *Bus) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-b.ch:
			return Posted{Event: ev}
		case <-b.done:
			return nil
		}
	}
}

// Close stops the bus. Pending listeners return nil.
func (b *Bus) Close() {
	b.once.Do(func() { close(b.done) })
}
