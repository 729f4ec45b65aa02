package dateparse_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/mesasync/internal/dateparse"
	"github.com/Gunvolt24/mesasync/internal/domain"
)

// Четверг, 16 октября 2025.
var thursday = time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)

func TestResolve_Table(t *testing.T) {
	t.Parallel()

	r := dateparse.New(time.UTC)

	tests := []struct {
		raw      string
		wantDate string
		wantKind domain.DateKind
	}{
		{"2025-12-31", "2025-12-31", domain.DateLiteral},
		{" 2025-10-01 ", "2025-10-01", domain.DateLiteral},
		{"20/10/2025", "2025-10-20", domain.DateLiteral},
		{"20-10-2025", "2025-10-20", domain.DateLiteral},
		{"16/10", "2025-10-16", domain.DateLiteral},
		{"15/10", "2026-10-15", domain.DateLiteral},
		{"18 de octubre", "2025-10-18", domain.DateLiteral},
		{"el 3 de Mayo de 2026", "2026-05-03", domain.DateLiteral},
		{"hoy", "2025-10-16", domain.DateRelativeDay},
		{"Esta noche", "2025-10-16", domain.DateRelativeDay},
		{"today", "2025-10-16", domain.DateRelativeDay},
		{"mañana", "2025-10-17", domain.DateRelativeDay},
		{"MAÑANA!", "2025-10-17", domain.DateRelativeDay},
		{"para mañana", "2025-10-17", domain.DateRelativeDay},
		{"tomorrow", "2025-10-17", domain.DateRelativeDay},
		{"pasado mañana", "2025-10-18", domain.DateRelativeDay},
		{"pasado   manana", "2025-10-18", domain.DateRelativeDay},
		{"viernes", "2025-10-17", domain.DateWeekdayName},
		{"el sábado", "2025-10-18", domain.DateWeekdayName},
		{"el próximo lunes", "2025-10-20", domain.DateWeekdayName},
		{"este miércoles", "2025-10-22", domain.DateWeekdayName},
		{"el martes que viene", "2025-10-21", domain.DateWeekdayName},
		{"el jueves", "2025-10-23", domain.DateWeekdayName},
		{"Friday", "2025-10-17", domain.DateWeekdayName},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := r.Resolve(tt.raw, thursday)
			require.NoError(t, err)
			require.Equal(t, tt.wantDate, got.Date)
			require.Equal(t, tt.wantKind, got.Kind)
			require.Equal(t, tt.raw, got.Raw)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	t.Parallel()

	r := dateparse.New(time.UTC)

	for _, raw := range []string{"", "   ", "el finde", "2025-02-30", "31/02", "30-02-2025", "32 de octubre", "algún día"} {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			got, err := r.Resolve(raw, thursday)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrInvalidDateExpression))

			var invalid *domain.InvalidDateError
			require.ErrorAs(t, err, &invalid)
			require.Equal(t, raw, invalid.Raw)
			require.Equal(t, domain.DateInvalid, got.Kind)
			require.Empty(t, got.Date)
		})
	}
}

func TestResolve_UsesRestaurantTimezone(t *testing.T) {
	t.Parallel()

	// 23:30 UTC 16.10 — в Мадриде (UTC+2) уже 17.10, в Мехико (UTC-6) ещё 16.10.
	ref := time.Date(2025, 10, 16, 23, 30, 0, 0, time.UTC)
	madrid := time.FixedZone("CEST", 2*60*60)
	mexico := time.FixedZone("CST", -6*60*60)

	got, err := dateparse.New(madrid).Resolve("hoy", ref)
	require.NoError(t, err)
	require.Equal(t, "2025-10-17", got.Date)

	got, err = dateparse.New(mexico).Resolve("hoy", ref)
	require.NoError(t, err)
	require.Equal(t, "2025-10-16", got.Date)

	// Пятница в Мадриде: "viernes" — это уже следующая неделя.
	got, err = dateparse.New(madrid).Resolve("viernes", ref)
	require.NoError(t, err)
	require.Equal(t, "2025-10-24", got.Date)
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	r := dateparse.New(time.UTC)
	a, errA := r.Resolve("el próximo domingo", thursday)
	b, errB := r.Resolve("el próximo domingo", thursday.Add(3*time.Hour))
	require.NoError(t, errA)
	require.NoError(t, errB)
	require.Equal(t, a, b)
}

func TestResolve_WeekdayNeverSameDay(t *testing.T) {
	t.Parallel()

	r := dateparse.New(time.UTC)
	names := []string{"domingo", "lunes", "martes", "miercoles", "jueves", "viernes", "sabado"}
	for i := 0; i < 7; i++ {
		ref := thursday.AddDate(0, 0, i)
		for _, name := range names {
			got, err := r.Resolve(name, ref)
			require.NoError(t, err)
			d, err := time.Parse("2006-01-02", got.Date)
			require.NoError(t, err)
			days := int(d.Sub(time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)).Hours() / 24)
			require.True(t, days >= 1 && days <= 7, "%s from %s resolved to %s", name, ref.Format("2006-01-02"), got.Date)
		}
	}
}

func TestToday(t *testing.T) {
	t.Parallel()
	madrid := time.FixedZone("CEST", 2*60*60)
	ref := time.Date(2025, 10, 16, 23, 30, 0, 0, time.UTC)
	require.Equal(t, "2025-10-17", dateparse.New(madrid).Today(ref))
}
