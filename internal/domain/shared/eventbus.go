package shared

import "context"

// Listener handles a dispatched event.
// A returned error aborts the dispatch and the read or write that triggered it.
type Listener interface {
	Handle(ctx context.Context, event NestedEvent) error
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(ctx context.Context, event NestedEvent) error

// Handle calls f(ctx, event)
func (f ListenerFunc) Handle(ctx context.Context, event NestedEvent) error {
	return f(ctx, event)
}

// EventDispatcher notifies listeners about an event and, recursively, about
// its child events. Listeners run synchronously in registration order and the
// parent event is always dispatched before its children.
type EventDispatcher interface {
	Dispatch(ctx context.Context, name string, event NestedEvent) error
}

// ListenerRegistrar registers listeners. Registration is expected to happen
// once at startup, before request traffic.
type ListenerRegistrar interface {
	// Register adds a listener for the given event names
	Register(listener Listener, eventNames ...string)
	// RegisterAll adds a listener that receives every event
	RegisterAll(listener Listener)
}
