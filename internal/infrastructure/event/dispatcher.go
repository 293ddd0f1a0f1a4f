package event

import (
	"context"

	"github.com/shopcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Dispatcher delivers nested events to registered listeners synchronously.
// The parent event is delivered first, then each child in order, depth first.
// The first listener error stops the dispatch and is returned to the caller.
type Dispatcher struct {
	*ListenerRegistry
	logger *zap.Logger
}

// NewDispatcher creates a new dispatcher with an empty registry
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		ListenerRegistry: NewListenerRegistry(),
		logger:           logger,
	}
}

// Dispatch delivers event under name and then recurses into its children,
// each delivered under its own name. ctx is handed to listeners as is; a
// cancelled context does not stop the dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, event shared.NestedEvent) error {
	if event == nil {
		return nil
	}
	listeners := d.Listeners(name)
	if len(listeners) > 0 {
		d.logger.Debug("dispatching event",
			zap.String("event", name),
			zap.Int("listeners", len(listeners)),
		)
	}
	for _, listener := range listeners {
		if err := listener.Handle(ctx, event); err != nil {
			d.logger.Error("listener failed to handle event",
				zap.String("event", name),
				zap.Error(err),
			)
			return shared.NewListenerError(name, err)
		}
	}

	for _, child := range event.Events() {
		if child == nil {
			continue
		}
		if err := d.Dispatch(ctx, child.Name(), child); err != nil {
			return err
		}
	}
	return nil
}

// Ensure Dispatcher implements EventDispatcher and ListenerRegistrar
var (
	_ shared.EventDispatcher   = (*Dispatcher)(nil)
	_ shared.ListenerRegistrar = (*Dispatcher)(nil)
)
