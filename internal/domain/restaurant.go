package domain

import "time"

// Значения по умолчанию для настроек ресторана.
const (
	DefaultOccupationWindow = 2 * time.Hour
	DefaultReservationHold  = 15 * time.Minute
	DefaultMinSyncInterval  = 3 * time.Minute
	DefaultCacheTTL         = 2 * time.Minute
)

// RestaurantSettings — настройки конкретного ресторана.
type RestaurantSettings struct {
	ID               string
	SpreadsheetID    string
	Location         *time.Location
	OccupationWindow time.Duration // сколько стол может быть occupied до авто-освобождения
	ReservationHold  time.Duration // сколько держим reserved без явного reservedUntil
	MinSyncInterval  time.Duration
	CacheTTL         time.Duration
}

// WithDefaults — подставляет значения по умолчанию в незаданные поля.
func (s RestaurantSettings) WithDefaults() RestaurantSettings {
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.OccupationWindow <= 0 {
		s.OccupationWindow = DefaultOccupationWindow
	}
	if s.ReservationHold <= 0 {
		s.ReservationHold = DefaultReservationHold
	}
	if s.MinSyncInterval <= 0 {
		s.MinSyncInterval = DefaultMinSyncInterval
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = DefaultCacheTTL
	}
	return s
}
