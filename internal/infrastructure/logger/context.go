package logger

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	shopKey   contextKey = "shop_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, a no-op logger if none
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithShop stores the shop in ctx and attaches a logger carrying shop_id
func WithShop(ctx context.Context, logger *zap.Logger, shopUUID uuid.UUID) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, shopKey, shopUUID)
	enriched := logger.With(zap.Stringer("shop_id", shopUUID))
	return WithContext(ctx, enriched), enriched
}

// ShopFromContext returns the shop stored by WithShop
func ShopFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(shopKey).(uuid.UUID)
	return id, ok
}

// WithTraceContext adds trace_id and span_id of the active span.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
