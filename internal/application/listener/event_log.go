package listener

import (
	"context"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// EventLogListener logs every dispatched event at debug level together
// with the trace of the triggering call. Shop scoped contexts log through
// the logger stored by logger.WithShop.
type EventLogListener struct {
	logger *zap.Logger
}

func NewEventLogListener(l *zap.Logger) *EventLogListener {
	if l == nil {
		l = zap.NewNop()
	}
	return &EventLogListener{logger: l}
}

func (l *EventLogListener) Handle(ctx context.Context, event shared.NestedEvent) error {
	base := l.logger
	if _, ok := logger.ShopFromContext(ctx); ok {
		base = logger.FromContext(ctx)
	}
	log := logger.WithTraceContext(ctx, base)
	if !log.Core().Enabled(zap.DebugLevel) {
		return nil
	}

	fields := []zap.Field{
		zap.String("event", event.Name()),
		zap.String("shop_id", event.Context().ShopUUID().String()),
		zap.Int("children", len(event.Events())),
	}
	switch e := event.(type) {
	case shared.EntityCollectionEvent:
		fields = append(fields, zap.String("entity", e.EntityName()), zap.Int("count", len(e.Entities())))
	case *shared.WrittenEvent:
		fields = append(fields, zap.String("entity", e.EntityName()), zap.Int("count", len(e.Records())))
	}

	log.Debug("Event dispatched", fields...)
	return nil
}
