package domain

import "time"

// AvailabilityQuery — запрос голосового агента «есть ли места».
type AvailabilityQuery struct {
	RestaurantID string
	RawDate      string
	Time         string // HH:MM, необязательно
	PartySize    int
	Zone         string // необязательно
	Reference    time.Time
}

// Availability — ответ на запрос доступности.
type Availability struct {
	RestaurantID    string         `json:"restaurant_id"`
	Date            DateExpression `json:"date"`
	Time            string         `json:"time,omitempty"`
	Closed          bool           `json:"closed"`
	OutsideShift    bool           `json:"outside_shift"`
	CandidateTables int            `json:"candidate_tables"`
	Booked          int            `json:"booked"`
	Available       bool           `json:"available"`
}
