package gormstore

import (
	"encoding/json"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// tableModel — строка restaurant_tables. Метки времени пишет ядро, а не gorm.
type tableModel struct {
	RestaurantID  string `gorm:"primaryKey;size:64"`
	ID            string `gorm:"primaryKey;size:64"`
	Zone          string `gorm:"size:64;not null"`
	Capacity      int    `gorm:"not null"`
	Status        string `gorm:"size:32;not null;index:idx_tables_status"`
	OccupiedSince *time.Time
	ReservedUntil *time.Time
	ClientData    string    `gorm:"type:text"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (tableModel) TableName() string { return "restaurant_tables" }

type reservationModel struct {
	RestaurantID string    `gorm:"primaryKey;size:64;index:idx_reservations_date,priority:1"`
	ID           string    `gorm:"primaryKey;size:64"`
	Date         string    `gorm:"column:reservation_date;size:10;not null;index:idx_reservations_date,priority:2"`
	Time         string    `gorm:"column:reservation_time;size:5;not null"`
	PartySize    int       `gorm:"not null"`
	CustomerName string    `gorm:"size:255;not null"`
	Phone        string    `gorm:"size:64;not null"`
	Zone         string    `gorm:"size:64;not null"`
	TableID      *string   `gorm:"size:64"`
	Status       string    `gorm:"size:32;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (reservationModel) TableName() string { return "reservations" }

func fromTable(t domain.TableRecord) (tableModel, error) {
	m := tableModel{
		RestaurantID:  t.RestaurantID,
		ID:            t.ID,
		Zone:          t.Zone,
		Capacity:      t.Capacity,
		Status:        string(t.Status),
		OccupiedSince: t.OccupiedSince,
		ReservedUntil: t.ReservedUntil,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.ClientData != nil {
		b, err := json.Marshal(t.ClientData)
		if err != nil {
			return m, err
		}
		m.ClientData = string(b)
	}
	return m, nil
}

func (m tableModel) toDomain() (domain.TableRecord, error) {
	t := domain.TableRecord{
		RestaurantID:  m.RestaurantID,
		ID:            m.ID,
		Zone:          m.Zone,
		Capacity:      m.Capacity,
		Status:        domain.TableStatus(m.Status),
		OccupiedSince: m.OccupiedSince,
		ReservedUntil: m.ReservedUntil,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.ClientData != "" {
		var c domain.ClientData
		if err := json.Unmarshal([]byte(m.ClientData), &c); err != nil {
			return t, err
		}
		t.ClientData = &c
	}
	return t, nil
}

func fromReservation(r domain.ReservationRecord) reservationModel {
	return reservationModel{
		RestaurantID: r.RestaurantID,
		ID:           r.ID,
		Date:         r.Date,
		Time:         r.Time,
		PartySize:    r.PartySize,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Zone:         r.Zone,
		TableID:      r.TableID,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (m reservationModel) toDomain() domain.ReservationRecord {
	return domain.ReservationRecord{
		RestaurantID: m.RestaurantID,
		ID:           m.ID,
		Date:         m.Date,
		Time:         m.Time,
		PartySize:    m.PartySize,
		CustomerName: m.CustomerName,
		Phone:        m.Phone,
		Zone:         m.Zone,
		TableID:      m.TableID,
		Status:       domain.ReservationStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
