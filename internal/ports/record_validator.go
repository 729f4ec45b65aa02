package ports

import (
	"context"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// RecordValidator — проверка записей, прочитанных из таблицы.
type RecordValidator interface {
	ValidateTable(ctx context.Context, table *domain.TableRecord) error
	ValidateReservation(ctx context.Context, reservation *domain.ReservationRecord) error
}
