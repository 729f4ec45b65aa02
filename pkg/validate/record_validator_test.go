package validate_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

func validTable() *domain.TableRecord {
	since := time.Date(2025, 10, 16, 20, 0, 0, 0, time.UTC)
	return &domain.TableRecord{
		RestaurantID:  "casa-pepe",
		ID:            "M1",
		Zone:          "terraza",
		Capacity:      4,
		Status:        domain.TableOccupied,
		OccupiedSince: &since,
	}
}

func validReservation() *domain.ReservationRecord {
	return &domain.ReservationRecord{
		RestaurantID: "casa-pepe",
		ID:           "r-1",
		Date:         "2025-10-17",
		Time:         "21:30",
		PartySize:    4,
		CustomerName: "Lucía",
		Phone:        "+34600000000",
		Status:       domain.ReservationConfirmed,
	}
}

func TestRecordValidator_ValidateTable(t *testing.T) {
	v := validate.NewRecordValidator()
	ctx := context.Background()

	t.Run("valid table", func(t *testing.T) {
		if err := v.ValidateTable(ctx, validTable()); err != nil {
			t.Fatalf("expected valid table, got: %v", err)
		}
	})

	cases := []struct {
		name string
		make func() *domain.TableRecord
		msg  string
	}{
		{"nil table", func() *domain.TableRecord { return nil }, "стол не может быть nil"},
		{"empty restaurant", func() *domain.TableRecord { t := validTable(); t.RestaurantID = ""; return t }, "restaurant_id обязателен"},
		{"empty id", func() *domain.TableRecord { t := validTable(); t.ID = ""; return t }, "id стола обязателен"},
		{"bad status", func() *domain.TableRecord { t := validTable(); t.Status = "rota"; return t }, "неизвестный статус стола"},
		{"negative capacity", func() *domain.TableRecord { t := validTable(); t.Capacity = -1; return t }, "capacity должен быть неотрицательным"},
		{"occupied without since", func() *domain.TableRecord { t := validTable(); t.OccupiedSince = nil; return t }, "occupied_since обязателен"},
		{"reserved without until", func() *domain.TableRecord {
			t := validTable()
			t.Status = domain.TableReserved
			return t
		}, "reserved_until обязателен"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateTable(ctx, tc.make())
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, validate.ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected %q in %q", tc.msg, err.Error())
			}
		})
	}
}

func TestRecordValidator_ValidateReservation(t *testing.T) {
	v := validate.NewRecordValidator()
	ctx := context.Background()

	t.Run("valid reservation", func(t *testing.T) {
		if err := v.ValidateReservation(ctx, validReservation()); err != nil {
			t.Fatalf("expected valid reservation, got: %v", err)
		}
	})

	t.Run("phone only is enough", func(t *testing.T) {
		r := validReservation()
		r.CustomerName = ""
		if err := v.ValidateReservation(ctx, r); err != nil {
			t.Fatalf("expected valid reservation, got: %v", err)
		}
	})

	cases := []struct {
		name string
		mut  func(r *domain.ReservationRecord)
		msg  string
	}{
		{"empty id", func(r *domain.ReservationRecord) { r.ID = "" }, "id брони обязателен"},
		{"bad date", func(r *domain.ReservationRecord) { r.Date = "17/10/2025" }, "YYYY-MM-DD"},
		{"impossible date", func(r *domain.ReservationRecord) { r.Date = "2025-02-30" }, "YYYY-MM-DD"},
		{"bad time", func(r *domain.ReservationRecord) { r.Time = "9:30" }, "HH:MM"},
		{"zero party", func(r *domain.ReservationRecord) { r.PartySize = 0 }, "party_size"},
		{"huge party", func(r *domain.ReservationRecord) { r.PartySize = 500 }, "party_size"},
		{"nobody", func(r *domain.ReservationRecord) { r.CustomerName = ""; r.Phone = "" }, "customer_name или phone"},
		{"bad status", func(r *domain.ReservationRecord) { r.Status = "no-show" }, "неизвестный статус брони"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validReservation()
			tc.mut(r)
			err := v.ValidateReservation(ctx, r)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !errors.Is(err, validate.ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected %q in %q", tc.msg, err.Error())
			}
		})
	}
}
