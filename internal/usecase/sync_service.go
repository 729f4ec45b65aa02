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

// SyncOptions — ограничения пасса синхронизации.
type SyncOptions struct {
	PassTimeout      time.Duration // бюджет на весь пасс одного ресторана
	BatchConcurrency int           // сколько ресторанов синхронизируются одновременно
}

func (o SyncOptions) withDefaults() SyncOptions {
	if o.PassTimeout <= 0 {
		o.PassTimeout = time.Minute
	}
	if o.BatchConcurrency <= 0 {
		o.BatchConcurrency = 4
	}
	return o
}

// SyncService — согласование локального зеркала с таблицей ресторана.
// Таблица — источник истины; локальные записи никогда не удаляются.
type SyncService struct {
	deps  Deps
	opts  SyncOptions
	group singleflight.Group

	mu         sync.RWMutex
	lastSynced map[string]time.Time
}

// NewSyncService — DI-конструктор.
func NewSyncService(deps Deps, opts SyncOptions) *SyncService {
	return &SyncService{
		deps:       deps,
		opts:       opts.withDefaults(),
		lastSynced: make(map[string]time.Time),
	}
}

// SyncIfNeeded — синхронизация с троттлингом: если последний успешный пасс
// был раньше minSyncInterval назад, таблица не читается. force снимает троттлинг
// и сбрасывает закэшированные листы ресторана.
func (s *SyncService) SyncIfNeeded(ctx context.Context, restaurantID string, force bool) domain.SyncResult {
	res := domain.SyncResult{RestaurantID: restaurantID}

	settings, ok := s.deps.Registry.Settings(restaurantID)
	if !ok {
		metrics.SyncRuns.WithLabelValues("failed").Inc()
		return res.WithError(fmt.Errorf("%w: %s", domain.ErrUnknownRestaurant, restaurantID))
	}

	if !force {
		if last, ok := s.LastSyncedAt(restaurantID); ok && s.deps.Clock.Now().Sub(last) < settings.MinSyncInterval {
			metrics.SyncRuns.WithLabelValues("skipped").Inc()
			res.Skipped = true
			res.SyncedAt = &last
			return res
		}
	} else {
		n := s.deps.Reader.Invalidate(ctx, restaurantID)
		s.deps.Log.Infof(ctx, "forced sync restaurant=%s invalidated=%d", restaurantID, n)
	}

	return s.SyncAll(ctx, restaurantID)
}

// SyncAll — полный пасс без троттлинга. Одновременные вызовы для одного ресторана
// объединяются в один пасс.
func (s *SyncService) SyncAll(ctx context.Context, restaurantID string) domain.SyncResult {
	v, _, shared := s.group.Do(restaurantID, func() (any, error) {
		return s.syncPass(context.WithoutCancel(ctx), restaurantID), nil
	})
	if shared {
		s.deps.Log.Infof(ctx, "sync coalesced restaurant=%s", restaurantID)
	}
	return v.(domain.SyncResult)
}

// SyncMany — SyncIfNeeded по набору ресторанов с ограниченным параллелизмом.
// Сбой одного ресторана не влияет на остальные.
func (s *SyncService) SyncMany(ctx context.Context, restaurantIDs []string, force bool) map[string]domain.SyncResult {
	results := make(map[string]domain.SyncResult, len(restaurantIDs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.opts.BatchConcurrency)
	for _, id := range restaurantIDs {
		g.Go(func() error {
			res := s.safeSync(ctx, id, force)
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// LastSyncedAt — момент последнего успешного пасса.
func (s *SyncService) LastSyncedAt(restaurantID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastSynced[restaurantID]
	return t, ok
}

func (s *SyncService) safeSync(ctx context.Context, restaurantID string, force bool) (res domain.SyncResult) {
	defer func() {
		if r := recover(); r != nil {
			s.deps.Log.Errorf(ctx, "sync panic restaurant=%s: %v", restaurantID, r)
			res = domain.SyncResult{RestaurantID: restaurantID}.
				WithError(fmt.Errorf("%w: panic: %v", domain.ErrUpstreamUnavailable, r))
		}
	}()
	return s.SyncIfNeeded(ctx, restaurantID, force)
}

func (s *SyncService) syncPass(ctx context.Context, restaurantID string) domain.SyncResult {
	ctx = ctxmeta.WithRestaurantID(ctx, restaurantID)
	ctx, span := telemetry.StartSpan(ctx, "sync.pass", restaurantID)
	defer span.End()

	start := time.Now()
	res := domain.SyncResult{RestaurantID: restaurantID}
	fail := func(err error) domain.SyncResult {
		metrics.SyncRuns.WithLabelValues("failed").Inc()
		s.deps.Log.Errorf(ctx, "sync failed restaurant=%s err=%v", restaurantID, err)
		span.RecordError(err)
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

	ctx, cancel := context.WithTimeout(ctx, s.opts.PassTimeout)
	defer cancel()

	tableRows, err := s.deps.Reader.Read(ctx, settings, domain.SheetTables, domain.CachePrefixTables)
	if err != nil {
		return fail(err)
	}
	reservationRows, err := s.deps.Reader.Read(ctx, settings, domain.SheetReservations, domain.CachePrefixReservations)
	if err != nil {
		return fail(err)
	}

	now := s.deps.Clock.Now()
	codec := sheetcodec.New(restaurantID, settings.Location, now)
	last, _ := s.LastSyncedAt(restaurantID)

	tables, conflicts, tablesErr := s.reconcileTables(ctx, settings, codec, tableRows, now, last)
	res.Tables.Synced = len(tables)
	res.Conflicts = conflicts

	var reservations []domain.ReservationRecord
	var reservationsErr error
	if tablesErr == nil {
		reservations, reservationsErr = s.reconcileReservations(ctx, restaurantID, codec, reservationRows, now)
		res.Reservations.Synced = len(reservations)
	}

	// События о применённых изменениях уходят и при частичном сбое.
	s.publish(ctx, tables, reservations, now)

	if tablesErr != nil {
		return fail(tablesErr)
	}
	if reservationsErr != nil {
		return fail(reservationsErr)
	}

	s.mu.Lock()
	s.lastSynced[restaurantID] = now
	s.mu.Unlock()

	metrics.SyncRuns.WithLabelValues("synced").Inc()
	metrics.SyncDuration.Observe(time.Since(start).Seconds())

	res.Synced = true
	res.SyncedAt = &now
	s.deps.Log.Infof(ctx, "sync done restaurant=%s tables=%d reservations=%d conflicts=%d took=%s",
		restaurantID, res.Tables.Synced, res.Reservations.Synced, res.Conflicts, time.Since(start))
	return res
}

// reconcileTables — применяет строки листа Mesas; возвращает реально изменённые столы.
func (s *SyncService) reconcileTables(
	ctx context.Context,
	settings domain.RestaurantSettings,
	codec *sheetcodec.Codec,
	rows []domain.SheetRow,
	now, lastSynced time.Time,
) ([]domain.TableRecord, int, error) {
	local, err := s.deps.Store.GetTableStates(ctx, settings.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: get tables: %v", domain.ErrUpstreamUnavailable, err)
	}
	byID := make(map[string]domain.TableRecord, len(local))
	for _, t := range local {
		byID[t.ID] = t
	}

	var changed []domain.TableRecord
	conflicts := 0
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		incoming, err := codec.Table(row)
		if err != nil {
			s.deps.Log.Warnf(ctx, "skip Mesas[%d]: %v", i, err)
			continue
		}
		if _, dup := seen[incoming.ID]; dup {
			s.deps.Log.Warnf(ctx, "skip Mesas[%d]: duplicate table id=%s", i, incoming.ID)
			continue
		}
		seen[incoming.ID] = struct{}{}

		current, exists := byID[incoming.ID]
		stamp := sheetStamp(incoming)
		if exists {
			inheritTimestamps(&incoming, current)
		}
		incoming.Normalize(now, settings.ReservationHold)

		if err := s.deps.Validator.ValidateTable(ctx, &incoming); err != nil {
			s.deps.Log.Warnf(ctx, "skip Mesas[%d]: %v", i, err)
			continue
		}

		if exists {
			if current.SameState(incoming) {
				continue
			}
			if s.deps.Outbox.Has(settings.ID, incoming.ID) {
				s.deps.Log.Infof(ctx, "table=%s has a pending sheet write, local state kept", incoming.ID)
				continue
			}
			if conflicting(current, incoming, lastSynced) {
				conflicts++
				metrics.SyncConflicts.Inc()
				if !stamp.After(current.UpdatedAt) {
					s.deps.Log.Warnf(ctx, "%v: table=%s local=%s sheet=%s, local is newer",
						domain.ErrConflictingWrite, incoming.ID, current.Occupant(), incoming.Occupant())
					continue
				}
				s.deps.Log.Warnf(ctx, "%v: table=%s local=%s sheet=%s, sheet is newer",
					domain.ErrConflictingWrite, incoming.ID, current.Occupant(), incoming.Occupant())
			}
		}

		if incoming.UpdatedAt.IsZero() {
			incoming.UpdatedAt = now
		}
		if err := s.deps.Store.UpsertTable(ctx, incoming); err != nil {
			return changed, conflicts, fmt.Errorf("%w: upsert table %s: %v", domain.ErrUpstreamUnavailable, incoming.ID, err)
		}
		changed = append(changed, incoming)
	}
	return changed, conflicts, nil
}

// reconcileReservations — применяет строки листа Reservas; обратные переходы статуса
// игнорируются, остальные поля обновляются.
func (s *SyncService) reconcileReservations(
	ctx context.Context,
	restaurantID string,
	codec *sheetcodec.Codec,
	rows []domain.SheetRow,
	now time.Time,
) ([]domain.ReservationRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	local, err := s.deps.Store.GetReservations(ctx, restaurantID, "")
	if err != nil {
		return nil, fmt.Errorf("%w: get reservations: %v", domain.ErrUpstreamUnavailable, err)
	}
	byID := make(map[string]domain.ReservationRecord, len(local))
	for _, r := range local {
		byID[r.ID] = r
	}

	var changed []domain.ReservationRecord
	for i, row := range rows {
		incoming, err := codec.Reservation(row)
		if err != nil {
			s.deps.Log.Warnf(ctx, "skip Reservas[%d]: %v", i, err)
			continue
		}
		if err := s.deps.Validator.ValidateReservation(ctx, &incoming); err != nil {
			s.deps.Log.Warnf(ctx, "skip Reservas[%d]: %v", i, err)
			continue
		}

		next, ok := mergeReservation(byID, incoming, now)
		if !ok {
			if cur, exists := byID[incoming.ID]; exists && cur.Status != incoming.Status {
				s.deps.Log.Warnf(ctx, "reservation=%s: transition %s -> %s ignored",
					incoming.ID, cur.Status, incoming.Status)
			}
			continue
		}
		if err := s.deps.Store.UpsertReservation(ctx, next); err != nil {
			return changed, fmt.Errorf("%w: upsert reservation %s: %v", domain.ErrUpstreamUnavailable, next.ID, err)
		}
		byID[next.ID] = next
		changed = append(changed, next)
	}
	return changed, nil
}

func (s *SyncService) publish(ctx context.Context, tables []domain.TableRecord, reservations []domain.ReservationRecord, at time.Time) {
	if len(tables) == 0 && len(reservations) == 0 {
		return
	}
	evs := make([]domain.ChangeEvent, 0, len(tables)+len(reservations))
	for _, t := range tables {
		evs = append(evs, events.TableChanged(t, at))
	}
	for _, r := range reservations {
		evs = append(evs, events.ReservationSynced(r, at))
	}
	if err := s.deps.Publisher.Publish(ctx, evs); err != nil {
		s.deps.Log.Warnf(ctx, "publish %d events failed err=%v", len(evs), err)
	}
}

// mergeReservation — новое состояние брони или false, если менять нечего.
func mergeReservation(local map[string]domain.ReservationRecord, incoming domain.ReservationRecord, now time.Time) (domain.ReservationRecord, bool) {
	current, exists := local[incoming.ID]
	if !exists {
		if incoming.CreatedAt.IsZero() {
			incoming.CreatedAt = now
		}
		incoming.UpdatedAt = now
		return incoming, true
	}

	next := current
	fieldsChanged := !current.SameFields(incoming)
	if fieldsChanged {
		next.Date = incoming.Date
		next.Time = incoming.Time
		next.PartySize = incoming.PartySize
		next.CustomerName = incoming.CustomerName
		next.Phone = incoming.Phone
		next.Zone = incoming.Zone
		next.TableID = incoming.TableID
	}
	statusChanged := current.Status.CanTransitionTo(incoming.Status)
	if statusChanged {
		next.Status = incoming.Status
	}
	if !fieldsChanged && !statusChanged {
		return current, false
	}
	next.UpdatedAt = now
	return next, true
}

// sheetStamp — когда изменение сделано в таблице (если таблица это знает).
func sheetStamp(t domain.TableRecord) time.Time {
	switch {
	case !t.UpdatedAt.IsZero():
		return t.UpdatedAt
	case t.OccupiedSince != nil:
		return *t.OccupiedSince
	default:
		return time.Time{}
	}
}

// inheritTimestamps — при неизменном статусе метки, которых нет в таблице, берутся из зеркала.
func inheritTimestamps(incoming *domain.TableRecord, current domain.TableRecord) {
	if incoming.Status != current.Status {
		return
	}
	if incoming.OccupiedSince == nil {
		incoming.OccupiedSince = current.OccupiedSince
	}
	if incoming.ReservedUntil == nil {
		incoming.ReservedUntil = current.ReservedUntil
	}
}

// conflicting — обе стороны считают стол занятым разными клиентами,
// и локальная запись менялась после последнего успешного пасса.
func conflicting(local, incoming domain.TableRecord, lastSynced time.Time) bool {
	if !holding(local.Status) || !holding(incoming.Status) {
		return false
	}
	a, b := local.Occupant(), incoming.Occupant()
	if a == "" || b == "" || a == b {
		return false
	}
	return local.UpdatedAt.After(lastSynced)
}

func holding(s domain.TableStatus) bool {
	return s == domain.TableOccupied || s == domain.TableOccupiedAllDay || s == domain.TableReserved
}
