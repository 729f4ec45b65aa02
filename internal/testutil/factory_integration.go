//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeTable — занятый стол уникального ресторана.
func MakeTable(opts ...func(*domain.TableRecord)) domain.TableRecord {
	now := time.Now().UTC().Truncate(time.Second)
	since := now.Add(-3 * time.Hour)

	t := domain.TableRecord{
		RestaurantID:  "rest-" + UniqSuffix(),
		ID:            "T1",
		Zone:          "terraza",
		Capacity:      4,
		Status:        domain.TableOccupied,
		OccupiedSince: &since,
		ClientData:    &domain.ClientData{Name: "Ana", Phone: "+34600111222", PartySize: 2},
		UpdatedAt:     since,
	}
	for _, fn := range opts {
		fn(&t)
	}
	return t
}

func WithRestaurant(id string) func(*domain.TableRecord) {
	return func(t *domain.TableRecord) { t.RestaurantID = id }
}

func WithTableID(id string) func(*domain.TableRecord) {
	return func(t *domain.TableRecord) { t.ID = id }
}

// MakeReservation — бронь за столом tableID.
func MakeReservation(restaurantID, tableID string, status domain.ReservationStatus) domain.ReservationRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.ReservationRecord{
		RestaurantID: restaurantID,
		ID:           "res-" + UniqSuffix(),
		Date:         now.Format("2006-01-02"),
		Time:         "21:00",
		PartySize:    2,
		CustomerName: "Luis",
		Phone:        "+34600333444",
		Zone:         "terraza",
		TableID:      &tableID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
