package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gunvolt24/mesasync/internal/dateparse"
	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/sheetcodec"
)

// ErrInvalidQuery — некорректные параметры запроса доступности.
var ErrInvalidQuery = errors.New("invalid availability query")

// AvailabilityService — ответы голосовому агенту: открыт ли ресторан в дату,
// попадает ли время в смену и сколько подходящих столов не занято бронями.
type AvailabilityService struct {
	deps Deps
}

// NewAvailabilityService — DI-конструктор.
func NewAvailabilityService(deps Deps) *AvailabilityService {
	return &AvailabilityService{deps: deps}
}

// ResolveDate — дата для выражения raw в часовом поясе ресторана.
// Нулевой reference — текущее время.
func (s *AvailabilityService) ResolveDate(ctx context.Context, restaurantID, raw string, reference time.Time) (domain.DateExpression, error) {
	settings, ok := s.deps.Registry.Settings(restaurantID)
	if !ok {
		return domain.DateExpression{Raw: raw, Kind: domain.DateInvalid},
			fmt.Errorf("%w: %s", domain.ErrUnknownRestaurant, restaurantID)
	}
	if reference.IsZero() {
		reference = s.deps.Clock.Now()
	}
	expr, err := dateparse.New(settings.Location).Resolve(raw, reference)
	if err != nil {
		s.deps.Log.Warnf(ctx, "resolve date restaurant=%s raw=%q: %v", restaurantID, raw, err)
	}
	return expr, err
}

// CheckAvailability — доступность на дату/время для компании из PartySize человек.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	out := domain.Availability{RestaurantID: q.RestaurantID}

	settings, ok := s.deps.Registry.Settings(q.RestaurantID)
	if !ok {
		return out, fmt.Errorf("%w: %s", domain.ErrUnknownRestaurant, q.RestaurantID)
	}
	if q.PartySize <= 0 {
		q.PartySize = 1
	}
	if q.Time != "" {
		hhmm, err := time.Parse("15:04", strings.TrimSpace(q.Time))
		if err != nil {
			return out, fmt.Errorf("%w: time %q", ErrInvalidQuery, q.Time)
		}
		q.Time = hhmm.Format("15:04")
		out.Time = q.Time
	}

	expr, err := s.ResolveDate(ctx, q.RestaurantID, q.RawDate, q.Reference)
	out.Date = expr
	if err != nil {
		return out, err
	}

	now := s.deps.Clock.Now()
	codec := sheetcodec.New(q.RestaurantID, settings.Location, now)

	closedRows, err := s.deps.Reader.Read(ctx, settings, domain.SheetClosedDays, domain.CachePrefixClosedDays)
	if err != nil {
		return out, err
	}
	closed, err := codec.ClosedDays(closedRows)
	if err != nil {
		s.deps.Log.Warnf(ctx, "DiasCerrados restaurant=%s: %v", q.RestaurantID, err)
	}
	if _, ok := closed[expr.Date]; ok {
		out.Closed = true
		return out, nil
	}

	if q.Time != "" {
		shiftRows, err := s.deps.Reader.Read(ctx, settings, domain.SheetShifts, domain.CachePrefixShifts)
		if err != nil {
			return out, err
		}
		shifts, err := codec.Shifts(shiftRows)
		if err != nil {
			s.deps.Log.Warnf(ctx, "Turnos restaurant=%s: %v", q.RestaurantID, err)
		}
		if len(shifts) > 0 && !inAnyShift(shifts, q.Time) {
			out.OutsideShift = true
			return out, nil
		}
	}

	tables, err := s.deps.Store.GetTableStates(ctx, q.RestaurantID)
	if err != nil {
		return out, fmt.Errorf("%w: get tables: %v", domain.ErrUpstreamUnavailable, err)
	}
	for _, t := range tables {
		if t.Status == domain.TableMaintenance || t.Capacity < q.PartySize || !sameZone(q.Zone, t.Zone) {
			continue
		}
		out.CandidateTables++
	}

	reservations, err := s.deps.Store.GetReservations(ctx, q.RestaurantID, expr.Date)
	if err != nil {
		return out, fmt.Errorf("%w: get reservations: %v", domain.ErrUpstreamUnavailable, err)
	}
	for _, r := range reservations {
		if !r.Status.Active() || !sameZone(q.Zone, r.Zone) {
			continue
		}
		if q.Time != "" && !overlaps(r.Time, q.Time, settings.OccupationWindow) {
			continue
		}
		out.Booked++
	}

	out.Available = out.CandidateTables > out.Booked
	return out, nil
}

func inAnyShift(shifts []domain.Shift, hhmm string) bool {
	for _, sh := range shifts {
		if sh.Contains(hhmm) {
			return true
		}
	}
	return false
}

// sameZone — пустая зона запроса подходит к любой.
func sameZone(want, have string) bool {
	return want == "" || strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(have))
}

// overlaps — пересекаются ли посадки, начатые в a и b, при длительности window.
func overlaps(a, b string, window time.Duration) bool {
	ta, errA := time.Parse("15:04", a)
	tb, errB := time.Parse("15:04", b)
	if errA != nil || errB != nil {
		return true
	}
	d := ta.Sub(tb)
	if d < 0 {
		d = -d
	}
	return d < window
}
