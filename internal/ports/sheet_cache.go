package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// CacheStats — счётчики кэша.
type CacheStats struct {
	Size   int
	Hits   uint64
	Misses uint64
}

// SheetCache — read-through кэш строк листов.
// Требования к реализации: потокобезопасность; фиксированный срок жизни записи; возврат копий.
type SheetCache interface {
	// Get — (rows, true) при попадании, (nil, false) при промахе/истечении.
	Get(ctx context.Context, key string) ([]domain.SheetRow, bool)

	// Set — сохранить значение; ttl <= 0 — TTL по умолчанию.
	Set(ctx context.Context, key string, rows []domain.SheetRow, ttl time.Duration)

	Invalidate(ctx context.Context, key string)

	// InvalidatePattern — удалить все ключи, подходящие под glob; возвращает число удалённых.
	InvalidatePattern(ctx context.Context, pattern string) int

	Stats() CacheStats
}
