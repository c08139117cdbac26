// Package notify carries user-facing notifications from anywhere in the
// process to whichever renderer is attached. Emitters never know who is
// listening; zero subscribers is a valid, silent state.
package notify

import (
	"errors"
	"sort"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

// Kind classifies a notification for the renderer.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindDefault Kind = "default"
)

const topicToast = "notify:toast"

// Event is a transient notification. Delivered at most once to each
// subscriber attached at emit time, dropped otherwise.
type Event struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Title   string `json:"title,omitempty"`
}

// Option mutates an event before it is published.
type Option func(*Event)

// WithTitle attaches an optional title to the event.
func WithTitle(title string) Option {
	return func(e *Event) {
		e.Title = title
	}
}

// Logger provides the minimal logging contract required by the bus.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Bus fans notifications out to all current subscribers synchronously, in
// subscription order. A panicking subscriber is logged and isolated; it can
// neither suppress delivery to later subscribers nor crash the emitter.
//
// Listeners live in the bus's own id-keyed registry and EventBus carries a
// single fan-out handler. EventBus unsubscribes by function code pointer,
// which is identical for every wrapper closure, so per-listener removal
// must not go through it.
type Bus struct {
	bus    evbus.Bus
	logger Logger

	mu      sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewBus creates an empty notification bus.
func NewBus(logger Logger) *Bus {
	b := &Bus{
		bus:    evbus.New(),
		logger: logger,
		subs:   make(map[int]func(Event)),
	}
	_ = b.bus.Subscribe(topicToast, b.dispatch)
	return b
}

// Subscribe attaches a listener and returns its detach function. Detaching
// removes exactly this listener; others keep receiving events.
func (b *Bus) Subscribe(listener func(Event)) (func(), error) {
	if listener == nil {
		return nil, errors.New("notification listener must not be nil")
	}

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = listener
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}, nil
}

// dispatch delivers one event to a snapshot of the current subscribers, in
// subscription order.
func (b *Bus) dispatch(event Event) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		b.deliver(fn, event)
	}
}

func (b *Bus) deliver(fn func(Event), event Event) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Error("notification listener panicked: %v", r)
			}
		}
	}()
	fn(event)
}

// Emit publishes a notification to every current subscriber.
func (b *Bus) Emit(kind Kind, message string, opts ...Option) {
	event := Event{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
	}
	for _, opt := range opts {
		opt(&event)
	}
	b.bus.Publish(topicToast, event)
}

// Success emits a success notification.
func (b *Bus) Success(message string, opts ...Option) {
	b.Emit(KindSuccess, message, opts...)
}

// Error emits an error notification.
func (b *Bus) Error(message string, opts ...Option) {
	b.Emit(KindError, message, opts...)
}
