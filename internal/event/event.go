// Package event provides the synchronous multicast primitive used for both
// raw property changes and semantic game events.
//
// An Event delivers every Emit to its subscribers in subscription order, on
// the caller's goroutine, before Emit returns. There is no queue, priority,
// filtering or back-pressure. Subscriber lists are expected to change only
// during setup and teardown; changing them from inside a callback affects the
// next Emit, never the one in flight.
package event

import (
	"errors"
	"fmt"
)

// ErrNotSubscribed is returned by Forget for an unknown subscription.
var ErrNotSubscribed = errors.New("subscription not found")

// Subscription identifies one callback registered with Watch.
type Subscription uint64

type subscriber[T any] struct {
	id Subscription
	fn func(T)
}

// Event is a named, ordered list of callbacks.
type Event[T any] struct {
	name string
	subs []subscriber[T]
	next Subscription
}

// New creates an empty event.
func New[T any](name string) *Event[T] {
	return &Event[T]{name: name}
}

func (e *Event[T]) Name() string {
	return e.name
}

// Len returns the number of current subscribers.
func (e *Event[T]) Len() int {
	return len(e.subs)
}

// Watch appends fn to the subscriber list.
func (e *Event[T]) Watch(fn func(T)) Subscription {
	e.next++
	e.subs = append(e.subs, subscriber[T]{id: e.next, fn: fn})
	return e.next
}

// Forget removes a subscription previously returned by Watch.
func (e *Event[T]) Forget(s Subscription) error {
	for i, sub := range e.subs {
		if sub.id == s {
			subs := make([]subscriber[T], 0, len(e.subs)-1)
			subs = append(subs, e.subs[:i]...)
			e.subs = append(subs, e.subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", e.name, ErrNotSubscribed)
}

// Emit calls every subscriber registered at call time with v.
func (e *Event[T]) Emit(v T) {
	subs := e.subs
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Signal is an event without a payload.
type Signal struct {
	*Event[struct{}]
}

// NewSignal creates an empty signal.
func NewSignal(name string) Signal {
	return Signal{New[struct{}](name)}
}

// On subscribes a zero-argument callback.
func (s Signal) On(fn func()) Subscription {
	return s.Watch(func(struct{}) { fn() })
}

// Fire emits the signal.
func (s Signal) Fire() {
	s.Emit(struct{}{})
}
