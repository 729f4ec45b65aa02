package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceIDFromContext — trace_id активного спана; без спана — "", false.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.TraceID().String(), true
}

// SpanIDFromContext — span_id активного спана.
func SpanIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.SpanID().String(), true
}

// Fields — метаданные запроса парами ключ/значение для логов; пустые пропускаются.
func Fields(ctx context.Context) []any {
	var kv []any
	if v, ok := RequestIDFromContext(ctx); ok {
		kv = append(kv, string(KeyRequestID), v)
	}
	if v, ok := RestaurantIDFromContext(ctx); ok {
		kv = append(kv, string(KeyRestaurantID), v)
	}
	if v, ok := TraceIDFromContext(ctx); ok {
		kv = append(kv, "trace_id", v)
	}
	if v, ok := SpanIDFromContext(ctx); ok {
		kv = append(kv, "span_id", v)
	}
	return kv
}

func spanContext(ctx context.Context) (trace.SpanContext, bool) {
	if ctx == nil {
		return trace.SpanContext{}, false
	}
	sc := trace.SpanContextFromContext(ctx)
	return sc, sc.IsValid()
}
