package domain

import (
	"encoding/json"
	"time"
)

// EventType — тип события об изменении.
type EventType string

const (
	EventTableStatusChanged EventType = "table_status_changed"
	EventReservationSynced  EventType = "reservation_synced"
)

// ChangeEvent — событие для NotificationFanout (дашборды).
type ChangeEvent struct {
	ID           string          `json:"id"`
	Type         EventType       `json:"type"`
	RestaurantID string          `json:"restaurant_id"`
	EntityID     string          `json:"entity_id"`
	Payload      json.RawMessage `json:"payload"`
	Timestamp    time.Time       `json:"timestamp"`
}

// SyncTrigger — внешний запрос синхронизации (сообщение Kafka, CLI).
type SyncTrigger struct {
	RestaurantID string `json:"restaurant_id"`
	Force        bool   `json:"force"`
}
