package sheetcodec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/sheetcodec"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

var (
	madrid = time.FixedZone("CEST", 2*60*60)
	now    = time.Date(2025, 10, 16, 21, 0, 0, 0, madrid)
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Ocupada desde":   "ocupada_desde",
		" Teléfono ":      "telefono",
		"RESERVADA HASTA": "reservada_hasta",
		"Sesión  ID":      "sesion_id",
	}
	for in, want := range cases {
		require.Equal(t, want, sheetcodec.NormalizeHeader(in), in)
	}
}

func TestTable_Decode(t *testing.T) {
	c := sheetcodec.New("casa-pepe", madrid, now)

	got, err := c.Table(domain.SheetRow{
		"mesa":          "T1",
		"zona":          "terraza",
		"capacidad":     "4",
		"estado":        "Ocupada",
		"ocupada_desde": "19:15",
		"cliente":       "Lucía",
		"telefono":      "+34600000000",
		"personas":      "3",
	})
	require.NoError(t, err)
	require.Equal(t, "casa-pepe", got.RestaurantID)
	require.Equal(t, "T1", got.ID)
	require.Equal(t, 4, got.Capacity)
	require.Equal(t, domain.TableOccupied, got.Status)
	require.NotNil(t, got.OccupiedSince)
	require.True(t, got.OccupiedSince.Equal(time.Date(2025, 10, 16, 19, 15, 0, 0, madrid)))
	require.Equal(t, &domain.ClientData{Name: "Lucía", Phone: "+34600000000", PartySize: 3}, got.ClientData)
}

func TestTable_StatusesAndDefaults(t *testing.T) {
	c := sheetcodec.New("r1", madrid, now)

	cases := map[string]domain.TableStatus{
		"":                    domain.TableFree,
		"libre":               domain.TableFree,
		"Reservada":           domain.TableReserved,
		"ocupada todo el día": domain.TableOccupiedAllDay,
		"Mantenimiento":       domain.TableMaintenance,
		"occupied":            domain.TableOccupied,
	}
	for raw, want := range cases {
		got, err := c.Table(domain.SheetRow{"id": "T9", "estado": raw})
		require.NoError(t, err, raw)
		require.Equal(t, want, got.Status, raw)
		require.Nil(t, got.ClientData, raw)
	}
}

func TestTable_Invalid(t *testing.T) {
	c := sheetcodec.New("r1", madrid, now)

	bad := []domain.SheetRow{
		{"zona": "sala"},
		{"id": "T1", "estado": "rota"},
		{"id": "T1", "capacidad": "cuatro"},
		{"id": "T1", "estado": "ocupada", "ocupada_desde": "ayer por la tarde"},
	}
	for _, row := range bad {
		_, err := c.Table(row)
		require.Error(t, err)
		require.True(t, errors.Is(err, validate.ErrInvalidRecord), "%v", err)
	}
}

func TestReservation_Decode(t *testing.T) {
	c := sheetcodec.New("casa-pepe", madrid, now)

	got, err := c.Reservation(domain.SheetRow{
		"id":       "R-77",
		"fecha":    "18/10/2025",
		"hora":     "9:30",
		"personas": "2",
		"nombre":   "Ana",
		"telefono": "600111222",
		"zona":     "salon",
		"mesa":     "T4",
		"estado":   "Confirmada",
		"creada":   "2025-10-15 10:00",
	})
	require.NoError(t, err)
	require.Equal(t, "R-77", got.ID)
	require.Equal(t, "2025-10-18", got.Date)
	require.Equal(t, "09:30", got.Time)
	require.Equal(t, 2, got.PartySize)
	require.Equal(t, domain.ReservationConfirmed, got.Status)
	require.NotNil(t, got.TableID)
	require.Equal(t, "T4", *got.TableID)
	require.True(t, got.CreatedAt.Equal(time.Date(2025, 10, 15, 10, 0, 0, 0, madrid)))
}

func TestReservation_DeterministicID(t *testing.T) {
	c := sheetcodec.New("casa-pepe", madrid, now)
	row := domain.SheetRow{"fecha": "2025-10-18", "hora": "21:00", "personas": "4", "nombre": "Ana", "telefono": "600"}

	a, err := c.Reservation(row)
	require.NoError(t, err)
	b, err := c.Reservation(row.Clone())
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	require.Equal(t, a.ID, b.ID)
	require.Equal(t, domain.ReservationPending, a.Status)

	other, err := sheetcodec.New("otro", madrid, now).Reservation(row)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, other.ID)

	// регистр и диакритика имени не меняют id
	require.Equal(t, sheetcodec.ReservationID("r", "2025-10-18", "21:00", "600", "Lucía"),
		sheetcodec.ReservationID("r", "2025-10-18", "21:00", "600", "lucia"))
}

func TestReservation_RejectsRelativeDates(t *testing.T) {
	c := sheetcodec.New("r1", madrid, now)
	for _, raw := range []string{"mañana", "el viernes", "", "31/02/2025"} {
		_, err := c.Reservation(domain.SheetRow{"fecha": raw, "hora": "21:00", "nombre": "Ana"})
		require.ErrorIs(t, err, validate.ErrInvalidRecord, raw)
	}
	_, err := c.Reservation(domain.SheetRow{"fecha": "2025-10-18", "hora": "tarde", "nombre": "Ana"})
	require.ErrorIs(t, err, validate.ErrInvalidRecord)
}

func TestReservation_YearlessDateAnchoredToCreated(t *testing.T) {
	row := domain.SheetRow{"fecha": "17/10", "hora": "21:00", "personas": "2", "nombre": "Ana",
		"telefono": "600", "creada": "2025-10-10 12:00"}
	later := now.AddDate(0, 0, 3)

	a, err := sheetcodec.New("r1", madrid, now).Reservation(row)
	require.NoError(t, err)
	b, err := sheetcodec.New("r1", madrid, later).Reservation(row.Clone())
	require.NoError(t, err)
	require.Equal(t, "2025-10-17", a.Date)
	require.Equal(t, a.Date, b.Date)
	require.Equal(t, a.ID, b.ID)

	named := domain.SheetRow{"fecha": "18 de octubre", "hora": "21:00", "nombre": "Ana",
		"creada": "2025-10-01 09:00"}
	got, err := sheetcodec.New("r1", madrid, later).Reservation(named)
	require.NoError(t, err)
	require.Equal(t, "2025-10-18", got.Date)

	// с годом в ячейке creada не нужна
	got, err = sheetcodec.New("r1", madrid, later).Reservation(domain.SheetRow{
		"fecha": "3 de mayo de 2026", "hora": "21:00", "nombre": "Ana"})
	require.NoError(t, err)
	require.Equal(t, "2026-05-03", got.Date)

	for _, created := range []string{"", "20:15"} {
		_, err := sheetcodec.New("r1", madrid, now).Reservation(domain.SheetRow{
			"fecha": "17/10", "hora": "21:00", "nombre": "Ana", "creada": created})
		require.ErrorIs(t, err, validate.ErrInvalidRecord, created)
	}
}

func TestEncodeTable_RoundTrip(t *testing.T) {
	c := sheetcodec.New("r1", madrid, now)
	since := time.Date(2025, 10, 16, 19, 0, 0, 0, madrid)
	in := domain.TableRecord{
		RestaurantID:  "r1",
		ID:            "T1",
		Zone:          "terraza",
		Capacity:      4,
		Status:        domain.TableOccupied,
		OccupiedSince: &since,
		ClientData:    &domain.ClientData{Name: "Ana", Phone: "600", PartySize: 2},
		UpdatedAt:     since,
	}

	row := c.EncodeTable(in)
	require.Equal(t, "ocupada", row["estado"])

	out, err := c.Table(row)
	require.NoError(t, err)
	require.True(t, in.SameState(out))

	freed := in
	freed.Status = domain.TableFree
	freed.OccupiedSince = nil
	freed.ClientData = nil
	row = c.EncodeTable(freed)
	require.Equal(t, "libre", row["estado"])
	require.Equal(t, "", row["ocupada_desde"])
	require.Equal(t, "", row["cliente"])
}

func TestClosedDaysAndShifts(t *testing.T) {
	c := sheetcodec.New("r1", madrid, now)

	days, err := c.ClosedDays([]domain.SheetRow{
		{"fecha": "2025-12-25", "motivo": "Navidad"},
		{"fecha": "01/01/2026"},
		{"fecha": "nunca"},
	})
	require.ErrorIs(t, err, validate.ErrInvalidRecord)
	require.Equal(t, map[string]string{"2025-12-25": "Navidad", "2026-01-01": ""}, days)

	shifts, err := c.Shifts([]domain.SheetRow{
		{"nombre": "comida", "inicio": "13:00", "fin": "16:30"},
		{"nombre": "cena", "inicio": "20:00", "fin": "0:30"},
	})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	require.True(t, shifts[0].Contains("14:00"))
	require.False(t, shifts[0].Contains("17:00"))
	require.True(t, shifts[1].Contains("23:45"))
	require.True(t, shifts[1].Contains("00:15"))
	require.False(t, shifts[1].Contains("19:00"))
}

func TestCanonicalTableColumn(t *testing.T) {
	require.Equal(t, "id", sheetcodec.CanonicalTableColumn("numero_mesa"))
	require.Equal(t, "ocupada_desde", sheetcodec.CanonicalTableColumn("hora_ocupacion"))
	require.Equal(t, "cliente", sheetcodec.CanonicalTableColumn("nombre"))
	require.Equal(t, "notas", sheetcodec.CanonicalTableColumn("notas"))
	require.True(t, sheetcodec.IsTableKeyColumn("mesa"))
	require.False(t, sheetcodec.IsTableKeyColumn("zona"))
}
