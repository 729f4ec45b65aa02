// Пакет events — конструкторы событий об изменениях и простые публикаторы.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// TableChanged — событие table_status_changed с новым состоянием стола.
func TableChanged(t domain.TableRecord, at time.Time) domain.ChangeEvent {
	return newEvent(domain.EventTableStatusChanged, t.RestaurantID, t.ID, t, at)
}

// ReservationSynced — событие reservation_synced с новым состоянием брони.
func ReservationSynced(r domain.ReservationRecord, at time.Time) domain.ChangeEvent {
	return newEvent(domain.EventReservationSynced, r.RestaurantID, r.ID, r, at)
}

func newEvent(typ domain.EventType, restaurantID, entityID string, record any, at time.Time) domain.ChangeEvent {
	payload, err := json.Marshal(record)
	if err != nil {
		payload = []byte("null")
	}
	return domain.ChangeEvent{
		ID:           uuid.NewString(),
		Type:         typ,
		RestaurantID: restaurantID,
		EntityID:     entityID,
		Payload:      payload,
		Timestamp:    at.UTC(),
	}
}
