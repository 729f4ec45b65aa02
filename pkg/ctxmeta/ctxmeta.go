// Пакет ctxmeta — нейтральный слой для работы с метаданными запроса,
// которые прокидываются через context.Context (request_id, restaurant_id, trace_id).
// HTTP-слой, консьюмер и логгер зависят от небольшого общего пакета, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемые типы — чтобы избежать коллизий).
	KeyRequestID    ctxKey = "request_id"
	KeyRestaurantID ctxKey = "restaurant_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return valueFrom(ctx, KeyRequestID)
}

// WithRestaurantID кладёт restaurant_id в контекст (если пусто — ничего не делает).
func WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	return withValue(ctx, KeyRestaurantID, restaurantID)
}

// RestaurantIDFromContext достаёт restaurant_id из контекста.
func RestaurantIDFromContext(ctx context.Context) (string, bool) {
	return valueFrom(ctx, KeyRestaurantID)
}

func withValue(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
