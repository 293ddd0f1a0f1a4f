// Package telemetry provides OpenTelemetry tracing for repository and storefront operations.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer of every span started here
const TracerName = "shopcore-backend"

// Span attribute keys
const (
	SpanAttrEntity       = "entity"
	SpanAttrShopID       = "shop_id"
	SpanAttrFallbackShop = "fallback_shop_id"
	SpanAttrLocale       = "locale"
	SpanAttrInputCount   = "input_count"
	SpanAttrResultCount  = "result_count"
	SpanAttrTotal        = "total"
)

// SpanOption adds attributes to a span before it starts
type SpanOption func(*[]attribute.KeyValue)

// WithAttribute adds an attribute to the span
func WithAttribute(key string, value any) SpanOption {
	return func(attrs *[]attribute.KeyValue) {
		*attrs = append(*attrs, toAttribute(key, value))
	}
}

// WithInputCount records how many identifiers or rows the call received
func WithInputCount(n int) SpanOption {
	return WithAttribute(SpanAttrInputCount, n)
}

// WithTranslationContext records the shop and locale the call runs in.
// The fallback shop is only recorded when one is set.
func WithTranslationContext(tctx shared.TranslationContext) SpanOption {
	return func(attrs *[]attribute.KeyValue) {
		*attrs = append(*attrs,
			attribute.String(SpanAttrShopID, tctx.ShopUUID().String()),
			attribute.String(SpanAttrLocale, tctx.Locale().String()),
		)
		if fallback := tctx.FallbackShopUUID(); fallback != uuid.Nil {
			*attrs = append(*attrs, attribute.String(SpanAttrFallbackShop, fallback.String()))
		}
	}
}

// StartEntitySpan starts an internal span named {entity}.{operation},
// e.g. "order_state.search". The caller ends the span.
//
//	ctx, span := telemetry.StartEntitySpan(ctx, "product", "read_basic")
//	defer span.End()
func StartEntitySpan(ctx context.Context, entity, operation string, opts ...SpanOption) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String(SpanAttrEntity, entity)}
	for _, opt := range opts {
		opt(&attrs)
	}

	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		fmt.Sprintf("%s.%s", entity, operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// SetAttributes adds key/value pairs to a started span. Pairs with a
// non-string key are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	span.SetAttributes(attrs...)
}

// Fail marks the span as failed with err and returns err unchanged, so
// call sites can write `return nil, telemetry.Fail(span, err)`.
// Domain errors also record their code.
func Fail(span trace.Span, err error) error {
	if span == nil || err == nil {
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var de *shared.DomainError
	if errors.As(err, &de) {
		span.SetAttributes(attribute.String("error.code", de.Code))
	}
	return err
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int32:
		return attribute.Int64(key, int64(v))
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
