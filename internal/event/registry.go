// Package event implements a small synchronous publish/subscribe registry.
//
// Handlers are registered against a named event and run in registration order
// on the goroutine that calls Trigger. The first handler to return an error
// stops dispatch and the error is handed back to the caller unchanged.
package event

import (
	"sync"
)

// Handler processes one triggered event. Payloads that are pointers may be
// modified by a handler; later handlers and the caller observe the change.
type Handler[T any] func(payload T) error

// Handle identifies a registration so it can be removed with Off.
type Handle struct {
	name string
	id   uint64
}

type registration[T any] struct {
	id uint64
	fn Handler[T]
}

// Registry holds handlers keyed by event name.
//
// Registry is safe for concurrent use. Trigger works on a snapshot of the
// handler list, so handlers may register or remove handlers without
// deadlocking; such changes apply from the next Trigger on.
type Registry[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]registration[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		handlers: make(map[string][]registration[T]),
	}
}

// On appends fn to the handlers of name.
func (r *Registry[T]) On(name string, fn Handler[T]) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.handlers[name] = append(r.handlers[name], registration[T]{id: r.nextID, fn: fn})
	return Handle{name: name, id: r.nextID}
}

// Off removes the registration identified by h. It reports whether a
// handler was removed.
func (r *Registry[T]) Off(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.handlers[h.name]
	for i, reg := range list {
		if reg.id != h.id {
			continue
		}
		next := make([]registration[T], 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(r.handlers, h.name)
		} else {
			r.handlers[h.name] = next
		}
		return true
	}
	return false
}

// Len returns the number of handlers registered for name.
func (r *Registry[T]) Len(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[name])
}

// Trigger calls every handler of name with payload, in registration order.
func (r *Registry[T]) Trigger(name string, payload T) error {
	r.mu.RLock()
	list := r.handlers[name]
	r.mu.RUnlock()

	for _, reg := range list {
		if err := reg.fn(payload); err != nil {
			return err
		}
	}
	return nil
}
