package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// CoreService — операции ядра, доступные внешним триггерам (HTTP, CLI, Kafka).
// Результаты синхронизации и освобождения несут ошибку внутри себя и не паникуют.
type CoreService interface {
	SyncIfNeeded(ctx context.Context, restaurantID string, force bool) domain.SyncResult
	ReleaseExpiredTables(ctx context.Context, restaurantID string) domain.ReleaseResult
	ResolveDate(ctx context.Context, restaurantID, raw string, reference time.Time) (domain.DateExpression, error)
	CheckAvailability(ctx context.Context, query domain.AvailabilityQuery) (domain.Availability, error)
}
