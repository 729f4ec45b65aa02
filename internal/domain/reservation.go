package domain

import "time"

// ReservationStatus — жизненный цикл брони.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationOccupied  ReservationStatus = "occupied"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// порядок прямых переходов pending→confirmed→occupied→completed.
var reservationRank = map[ReservationStatus]int{
	ReservationPending:   0,
	ReservationConfirmed: 1,
	ReservationOccupied:  2,
	ReservationCompleted: 3,
}

// Valid — входит ли статус в известный набор.
func (s ReservationStatus) Valid() bool {
	if s == ReservationCancelled {
		return true
	}
	_, ok := reservationRank[s]
	return ok
}

// Terminal — completed и cancelled дальше не меняются.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled
}

// CanTransitionTo — допустим ли переход s → next.
// Разрешены только шаги вперёд и отмена из нетерминального состояния.
// Повтор того же статуса переходом не считается (no-op).
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next || s.Terminal() || !next.Valid() {
		return false
	}
	if next == ReservationCancelled {
		return true
	}
	return reservationRank[next] > reservationRank[s]
}

// Active — бронь ещё занимает место в зале.
func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationConfirmed || s == ReservationOccupied
}

// ReservationRecord — бронь в локальном зеркале.
type ReservationRecord struct {
	RestaurantID string            `json:"restaurant_id"`
	ID           string            `json:"id"`
	Date         string            `json:"date"` // YYYY-MM-DD
	Time         string            `json:"time"` // HH:MM
	PartySize    int               `json:"party_size"`
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Zone         string            `json:"zone"`
	TableID      *string           `json:"table_id,omitempty"`
	Status       ReservationStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// SameFields — совпадают ли все поля брони, кроме статуса и служебных меток.
func (r ReservationRecord) SameFields(o ReservationRecord) bool {
	return r.Date == o.Date &&
		r.Time == o.Time &&
		r.PartySize == o.PartySize &&
		r.CustomerName == o.CustomerName &&
		r.Phone == o.Phone &&
		r.Zone == o.Zone &&
		sameString(r.TableID, o.TableID)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
