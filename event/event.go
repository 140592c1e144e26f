// Package event provides the typed signal/listener registry and the
// single-threaded loop that the rest of rill runs on.
//
// Everything in this package is strictly single-threaded. Handlers run to
// completion in the order that they became ready, and removing a listener
// guarantees that it will never be called again, even if the removal
// happens in the middle of a dispatch of the same source.
package event

import "golang.org/x/exp/slices"

// A Source dispatches values of type T to its listeners in registration
// order.
type Source[T any] struct {
	listeners []*listener[T]
}

type listener[T any] struct {
	src *Source[T]
	f   func(T)
}

// A Listener is a handle to a single registration on a Source. Destroying
// it removes the registration. A listener must always be destroyed before
// the object that its callback closes over is torn down.
type Listener interface {
	// Destroy removes the registration. It is idempotent and safe to
	// call from inside a dispatch of the same source.
	Destroy()
}

// Listen registers f to be called on every emit. Listeners registered
// during a dispatch do not see the value being dispatched.
func (s *Source[T]) Listen(f func(T)) Listener {
	l := &listener[T]{src: s, f: f}
	s.listeners = append(s.listeners, l)
	return l
}

// Emit calls every registered listener with v, in registration order.
func (s *Source[T]) Emit(v T) {
	for _, l := range slices.Clone(s.listeners) {
		if l.src != nil {
			l.f(v)
		}
	}
}

func (l *listener[T]) Destroy() {
	if l.src == nil {
		return
	}
	i := slices.Index(l.src.listeners, l)
	l.src.listeners = slices.Delete(l.src.listeners, i, i+1)
	l.src = nil
}
