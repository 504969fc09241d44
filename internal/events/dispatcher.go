// SPDX-License-Identifier: Apache-2.0

package events

import "sync"

// Handler observes one event
type Handler func(event Event)

// Dispatcher delivers events synchronously to the handlers registered for
// their exact kind, in registration order. A dispatcher lives for one run.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

// NewDispatcher creates a dispatcher with no handlers
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind][]Handler)}
}

// Listen registers handler for kind
func (d *Dispatcher) Listen(kind Kind, handler Handler) *Dispatcher {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[kind] = append(d.handlers[kind], handler)
	return d
}

// ListenAll registers handler for every kind
func (d *Dispatcher) ListenAll(handler Handler) *Dispatcher {
	for _, kind := range Kinds() {
		d.Listen(kind, handler)
	}
	return d
}

// Dispatch invokes the handlers for event's kind. Kinds without handlers
// are ignored. A nil dispatcher drops every event.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	handlers := d.handlers[event.Kind()]
	d.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// On registers a handler typed to the concrete event T
func On[T Event](d *Dispatcher, handler func(T)) *Dispatcher {
	var zero T
	return d.Listen(zero.Kind(), func(event Event) {
		if e, ok := event.(T); ok {
			handler(e)
		}
	})
}
