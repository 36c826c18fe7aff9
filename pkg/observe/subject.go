// Package observe provides a synchronous publish/subscribe primitive.
//
// A [Subject] delivers every event to its listeners synchronously, in
// registration order. Delivery is reentrant: a listener may mutate the
// source and trigger nested notifications. Two rules keep this sane:
//
//   - A listener subscribed during a delivery receives only later events.
//   - A listener cancelled during a delivery receives no further events,
//     including the remainder of the current one.
//
// Runaway recursion (a listener that keeps rewriting the value it is
// notified about) is stopped by a depth guard that panics with a
// NOTIFY_CYCLE error once nesting exceeds [MaxDepth].
//
// Listeners must not rely on any order beyond registration order for a
// given event on a given subject.
package observe

import (
	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// MaxDepth bounds nested Notify calls on one subject.
const MaxDepth = 64

type listener[E any] struct {
	id uint64
	fn func(E)
	// dead is set on cancellation so in-flight deliveries skip it.
	dead bool
}

// Subject fans events of type E out to subscribed listeners.
// The zero value is ready to use. A Subject is not safe for concurrent use.
type Subject[E any] struct {
	listeners []*listener[E]
	nextID    uint64
	depth     int
}

// Subscribe registers fn and returns a function that removes it.
// The cancel function is idempotent.
func (s *Subject[E]) Subscribe(fn func(E)) (cancel func()) {
	s.nextID++
	l := &listener[E]{id: s.nextID, fn: fn}
	s.listeners = append(s.listeners, l)
	return func() { s.remove(l) }
}

func (s *Subject[E]) remove(l *listener[E]) {
	if l.dead {
		return
	}
	l.dead = true
	for i, x := range s.listeners {
		if x == l {
			// Copy so in-flight iterations over the old slice stay valid.
			next := make([]*listener[E], 0, len(s.listeners)-1)
			next = append(next, s.listeners[:i]...)
			s.listeners = append(next, s.listeners[i+1:]...)
			return
		}
	}
}

// HasListeners reports whether at least one listener is subscribed.
func (s *Subject[E]) HasListeners() bool { return len(s.listeners) > 0 }

// Len returns the number of subscribed listeners.
func (s *Subject[E]) Len() int { return len(s.listeners) }

// Notify delivers ev to every listener subscribed before the call.
func (s *Subject[E]) Notify(ev E) {
	if len(s.listeners) == 0 {
		return
	}
	if s.depth >= MaxDepth {
		panic(errs.New(errs.ErrCodeNotifyCycle, "notification nesting exceeded %d levels", MaxDepth))
	}
	s.depth++
	defer func() { s.depth-- }()

	snapshot := s.listeners
	for _, l := range snapshot {
		if !l.dead {
			l.fn(ev)
		}
	}
}

// Clear removes every listener.
func (s *Subject[E]) Clear() {
	for _, l := range s.listeners {
		l.dead = true
	}
	s.listeners = nil
}
