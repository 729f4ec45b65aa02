package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/events"
	"github.com/Gunvolt24/mesasync/internal/sheetcodec"
	"github.com/Gunvolt24/mesasync/pkg/ctxmeta"
	"github.com/Gunvolt24/mesasync/pkg/metrics"
	"github.com/Gunvolt24/mesasync/pkg/telemetry"
)

// ReleaseService — авто-освобождение столов по истечении окна занятости или удержания брони.
type ReleaseService struct {
	deps        Deps
	passTimeout time.Duration
	concurrency int
	group       singleflight.Group
}

// NewReleaseService — DI-конструктор. Параметры берутся из SyncOptions.
func NewReleaseService(deps Deps, opts SyncOptions) *ReleaseService {
	opts = opts.withDefaults()
	return &ReleaseService{
		deps:        deps,
		passTimeout: opts.PassTimeout,
		concurrency: opts.BatchConcurrency,
	}
}

// ReleaseExpiredTables — один проход по столам ресторана. Одновременные вызовы
// объединяются; каждый переход стола применяется и публикуется ровно один раз.
func (s *ReleaseService) ReleaseExpiredTables(ctx context.Context, restaurantID string) domain.ReleaseResult {
	v, _, _ := s.group.Do(restaurantID, func() (any, error) {
		return s.releasePass(context.WithoutCancel(ctx), restaurantID), nil
	})
	return v.(domain.ReleaseResult)
}

// ReleaseMany — проход по набору ресторанов с ограниченным параллелизмом.
func (s *ReleaseService) ReleaseMany(ctx context.Context, restaurantIDs []string) map[string]domain.ReleaseResult {
	results := make(map[string]domain.ReleaseResult, len(restaurantIDs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, id := range restaurantIDs {
		g.Go(func() error {
			res := s.safeRelease(ctx, id)
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *ReleaseService) safeRelease(ctx context.Context, restaurantID string) (res domain.ReleaseResult) {
	defer func() {
		if r := recover(); r != nil {
			s.deps.Log.Errorf(ctx, "release panic restaurant=%s: %v", restaurantID, r)
			res = domain.ReleaseResult{RestaurantID: restaurantID}.
				WithError(fmt.Errorf("%w: panic: %v", domain.ErrUpstreamUnavailable, r))
		}
	}()
	return s.ReleaseExpiredTables(ctx, restaurantID)
}

func (s *ReleaseService) releasePass(ctx context.Context, restaurantID string) domain.ReleaseResult {
	ctx = ctxmeta.WithRestaurantID(ctx, restaurantID)
	ctx, span := telemetry.StartSpan(ctx, "release.pass", restaurantID)
	defer span.End()

	res := domain.ReleaseResult{RestaurantID: restaurantID}
	fail := func(err error) domain.ReleaseResult {
		s.deps.Log.Errorf(ctx, "release failed restaurant=%s err=%v", restaurantID, err)
		span.RecordError(err)
		res.PendingSheetWrites = s.deps.Outbox.Pending(restaurantID)
		return res.WithError(err)
	}

	settings, ok := s.deps.Registry.Settings(restaurantID)
	if !ok {
		return fail(fmt.Errorf("%w: %s", domain.ErrUnknownRestaurant, restaurantID))
	}

	release, err := s.deps.Locks.Acquire(ctx, restaurantID)
	if err != nil {
		return fail(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.passTimeout)
	defer cancel()

	s.flushOutbox(ctx, restaurantID)

	tables, err := s.deps.Store.GetTableStates(ctx, restaurantID)
	if err != nil {
		return fail(fmt.Errorf("%w: get tables: %v", domain.ErrUpstreamUnavailable, err))
	}

	now := s.deps.Clock.Now()
	codec := sheetcodec.New(restaurantID, settings.Location, now)

	var evs []domain.ChangeEvent
	var storeErr error
	for _, t := range tables {
		if !Expired(t, settings, now) {
			continue
		}
		out, err := s.deps.Store.ReleaseTable(ctx, restaurantID, t.ID, t.Status, now)
		if err != nil {
			s.deps.Log.Errorf(ctx, "release table=%s failed err=%v", t.ID, err)
			storeErr = fmt.Errorf("%w: release table %s: %v", domain.ErrUpstreamUnavailable, t.ID, err)
			continue
		}
		if !out.Released {
			continue
		}

		res.Released++
		metrics.TablesReleased.WithLabelValues(string(t.Status)).Inc()
		s.deps.Log.Infof(ctx, "table=%s released from=%s occupant=%s", t.ID, t.Status, t.Occupant())

		evs = append(evs, events.TableChanged(out.Table, now))
		for _, r := range out.Completed {
			evs = append(evs, events.ReservationSynced(r, now))
		}

		row := codec.EncodeTable(out.Table)
		if err := s.deps.Reader.WriteTable(ctx, restaurantID, out.Table.ID, row); err != nil {
			s.deps.Outbox.Enqueue(restaurantID, out.Table.ID, row, now, err)
			s.deps.Log.Warnf(ctx, "sheet write table=%s deferred err=%v", out.Table.ID, err)
		}
	}

	if res.Released > 0 {
		s.deps.Reader.Invalidate(ctx, restaurantID, domain.CachePrefixTables, domain.CachePrefixReservations)
	}
	if len(evs) > 0 {
		if err := s.deps.Publisher.Publish(ctx, evs); err != nil {
			s.deps.Log.Warnf(ctx, "publish %d events failed err=%v", len(evs), err)
		}
	}

	res.PendingSheetWrites = s.deps.Outbox.Pending(restaurantID)
	if storeErr != nil {
		return fail(storeErr)
	}
	if res.Released > 0 || res.PendingSheetWrites > 0 {
		s.deps.Log.Infof(ctx, "release done restaurant=%s released=%d pending_writes=%d",
			restaurantID, res.Released, res.PendingSheetWrites)
	}
	return res
}

// flushOutbox — повторить отложенные записи до сканирования столов.
func (s *ReleaseService) flushOutbox(ctx context.Context, restaurantID string) {
	for _, pw := range s.deps.Outbox.Snapshot(restaurantID) {
		if err := s.deps.Reader.WriteTable(ctx, restaurantID, pw.TableID, pw.Row); err != nil {
			s.deps.Outbox.Failed(pw, err)
			s.deps.Log.Warnf(ctx, "outbox retry table=%s attempts=%d err=%v", pw.TableID, pw.Attempts+1, err)
			continue
		}
		s.deps.Outbox.Ack(pw)
		s.deps.Log.Infof(ctx, "outbox delivered table=%s after %s", pw.TableID, s.deps.Clock.Now().Sub(pw.QueuedAt))
	}
}

// Expired — пора ли освобождать стол:
// occupied — прошло не меньше occupationWindow с occupiedSince;
// reserved — now позже reservedUntil;
// occupied_all_day — наступили следующие сутки по времени ресторана;
// maintenance и free не освобождаются.
func Expired(t domain.TableRecord, settings domain.RestaurantSettings, now time.Time) bool {
	switch t.Status {
	case domain.TableOccupied:
		return t.OccupiedSince != nil && now.Sub(*t.OccupiedSince) >= settings.OccupationWindow
	case domain.TableReserved:
		return t.ReservedUntil != nil && now.After(*t.ReservedUntil)
	case domain.TableOccupiedAllDay:
		if t.OccupiedSince == nil {
			return false
		}
		loc := settings.Location
		if loc == nil {
			loc = time.UTC
		}
		since := t.OccupiedSince.In(loc)
		nextDay := time.Date(since.Year(), since.Month(), since.Day()+1, 0, 0, 0, 0, loc)
		return !now.Before(nextDay)
	default:
		return false
	}
}
