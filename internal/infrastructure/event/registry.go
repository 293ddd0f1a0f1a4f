package event

import (
	"sync"

	"github.com/shopcore/backend/internal/domain/shared"
)

// ListenerRegistry keeps listeners per event name in registration order
type ListenerRegistry struct {
	mu        sync.RWMutex
	listeners map[string][]shared.Listener // event name -> listeners
	wildcard  []shared.Listener            // listeners for all events
}

// NewListenerRegistry creates a new listener registry
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{
		listeners: make(map[string][]shared.Listener),
		wildcard:  make([]shared.Listener, 0),
	}
}

// Register adds a listener for specific event names.
// If no names are provided, the listener receives all events.
func (r *ListenerRegistry) Register(listener shared.Listener, eventNames ...string) {
	if len(eventNames) == 0 {
		r.RegisterAll(listener)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range eventNames {
		r.listeners[name] = append(r.listeners[name], listener)
	}
}

// RegisterAll adds a wildcard listener
func (r *ListenerRegistry) RegisterAll(listener shared.Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wildcard = append(r.wildcard, listener)
}

// Listeners returns the listeners for an event name followed by the
// wildcard listeners. Registering a listener twice yields it twice.
func (r *ListenerRegistry) Listeners(eventName string) []shared.Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	named := r.listeners[eventName]
	result := make([]shared.Listener, 0, len(named)+len(r.wildcard))
	result = append(result, named...)
	result = append(result, r.wildcard...)
	return result
}

// HasListeners reports whether any listener would receive the event name
func (r *ListenerRegistry) HasListeners(eventName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[eventName]) > 0 || len(r.wildcard) > 0
}

// EventNames returns the names that have at least one dedicated listener
func (r *ListenerRegistry) EventNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.listeners))
	for name := range r.listeners {
		names = append(names, name)
	}
	return names
}

var _ shared.ListenerRegistrar = (*ListenerRegistry)(nil)
