package domain

import "time"

// TableStatus — состояние стола в зале.
type TableStatus string

const (
	TableFree           TableStatus = "free"
	TableOccupied       TableStatus = "occupied"
	TableReserved       TableStatus = "reserved"
	TableOccupiedAllDay TableStatus = "occupied_all_day"
	TableMaintenance    TableStatus = "maintenance"
)

// Valid — входит ли статус в известный набор.
func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableReserved, TableOccupiedAllDay, TableMaintenance:
		return true
	}
	return false
}

// ClientData — кто сидит за столом (или на кого он придержан).
type ClientData struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	PartySize int    `json:"party_size,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// TableRecord — стол ресторана в локальном зеркале.
type TableRecord struct {
	RestaurantID  string      `json:"restaurant_id"`
	ID            string      `json:"id"`
	Zone          string      `json:"zone"`
	Capacity      int         `json:"capacity"`
	Status        TableStatus `json:"status"`
	OccupiedSince *time.Time  `json:"occupied_since,omitempty"`
	ReservedUntil *time.Time  `json:"reserved_until,omitempty"`
	ClientData    *ClientData `json:"client_data,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Normalize приводит временные метки в соответствие со статусом:
// occupied ⇒ occupiedSince задан, reserved ⇒ reservedUntil задан,
// лишние метки других статусов сбрасываются.
func (t *TableRecord) Normalize(now time.Time, reservationHold time.Duration) {
	switch t.Status {
	case TableOccupied, TableOccupiedAllDay:
		if t.OccupiedSince == nil {
			since := now
			t.OccupiedSince = &since
		}
		t.ReservedUntil = nil
	case TableReserved:
		if t.ReservedUntil == nil {
			until := now.Add(reservationHold)
			t.ReservedUntil = &until
		}
		t.OccupiedSince = nil
	default:
		t.OccupiedSince = nil
		t.ReservedUntil = nil
	}
	if t.Status == TableFree {
		t.ClientData = nil
	}
}

// SameState — совпадают ли изменяемые поля двух записей.
// UpdatedAt не сравнивается: это метка, а не состояние.
func (t TableRecord) SameState(o TableRecord) bool {
	return t.Zone == o.Zone &&
		t.Capacity == o.Capacity &&
		t.Status == o.Status &&
		sameTime(t.OccupiedSince, o.OccupiedSince) &&
		sameTime(t.ReservedUntil, o.ReservedUntil) &&
		sameClient(t.ClientData, o.ClientData)
}

// Occupant — идентификатор того, кто занимает стол (сессия, иначе телефон/имя).
func (t TableRecord) Occupant() string {
	if t.ClientData == nil {
		return ""
	}
	switch {
	case t.ClientData.SessionID != "":
		return t.ClientData.SessionID
	case t.ClientData.Phone != "":
		return t.ClientData.Phone
	default:
		return t.ClientData.Name
	}
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}

func sameClient(a, b *ClientData) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
