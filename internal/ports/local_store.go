package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// ReleaseOutcome — итог транзакционного освобождения стола.
type ReleaseOutcome struct {
	Released  bool                       // false — статус уже сменился (CAS не прошёл)
	Table     domain.TableRecord         // состояние стола после освобождения
	Completed []domain.ReservationRecord // брони, закрытые вместе со столом (occupied → completed)
}

// LocalStore — локальное зеркало столов и броней.
type LocalStore interface {
	GetTableStates(ctx context.Context, restaurantID string) ([]domain.TableRecord, error)
	UpsertTable(ctx context.Context, table domain.TableRecord) error

	// GetReservations — брони ресторана на дату YYYY-MM-DD; пустая дата — все брони.
	GetReservations(ctx context.Context, restaurantID, date string) ([]domain.ReservationRecord, error)
	UpsertReservation(ctx context.Context, reservation domain.ReservationRecord) error

	// ReleaseTable — в одной транзакции: стол from → free, если статус всё ещё from,
	// и закрытие брони, сидящей за этим столом.
	ReleaseTable(ctx context.Context, restaurantID, tableID string, from domain.TableStatus, at time.Time) (ReleaseOutcome, error)
}
