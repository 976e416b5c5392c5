package event

import "reflect"

// Bus is a double-buffered event queue. Events emitted during one pulse
// are delivered at the start of the next, so handlers never observe the
// entity graph mid-mutation.
type Bus struct {
	handlers map[reflect.Type][]func(any)
	pending  []any
	current  []any
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	var zero T
	t := reflect.TypeOf(zero)
	b.handlers[t] = append(b.handlers[t], func(ev any) {
		fn(ev.(T))
	})
}

// Emit queues an event for delivery on the next swap.
func (b *Bus) Emit(ev any) {
	b.pending = append(b.pending, ev)
}

// Swap promotes pending events and delivers the previous batch.
func (b *Bus) Swap() {
	b.current, b.pending = b.pending, b.current[:0]
	for _, ev := range b.current {
		for _, fn := range b.handlers[reflect.TypeOf(ev)] {
			fn(ev)
		}
	}
}
