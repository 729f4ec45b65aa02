package usecase_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Gunvolt24/mesasync/internal/cache/memory"
	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/internal/usecase"
	"github.com/Gunvolt24/mesasync/pkg/clock"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

const rid = "r1"

var madrid = time.FixedZone("CEST", 2*3600)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

// --- registry ---

type fakeRegistry map[string]domain.RestaurantSettings

func (r fakeRegistry) Settings(id string) (domain.RestaurantSettings, bool) {
	s, ok := r[id]
	return s, ok
}

func (r fakeRegistry) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// --- mirror ---

type fakeMirror struct {
	mu       sync.Mutex
	rows     map[string][]domain.SheetRow // restaurant|sheet → строки
	reads    map[string]int
	writes   int
	appends  int
	readErr  map[string]error // restaurant → ошибка чтения
	writeErr error
	delay    time.Duration
	hang     bool // ReadRows ждёт отмены ctx
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		rows:    make(map[string][]domain.SheetRow),
		reads:   make(map[string]int),
		readErr: make(map[string]error),
	}
}

func (m *fakeMirror) set(restaurantID, sheet string, rows ...domain.SheetRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[restaurantID+"|"+sheet] = rows
}

func (m *fakeMirror) readCount(restaurantID, sheet string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[restaurantID+"|"+sheet]
}

func (m *fakeMirror) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *fakeMirror) failWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *fakeMirror) setHang(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hang = v
}

func (m *fakeMirror) ReadRows(ctx context.Context, restaurantID, sheet string) ([]domain.SheetRow, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	hang := m.hang
	m.mu.Unlock()
	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[restaurantID+"|"+sheet]++
	if err := m.readErr[restaurantID]; err != nil {
		return nil, err
	}
	return domain.CloneRows(m.rows[restaurantID+"|"+sheet]), nil
}

func (m *fakeMirror) WriteRow(_ context.Context, restaurantID, sheet, rowKey string, fields domain.SheetRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	key := restaurantID + "|" + sheet
	for i, row := range m.rows[key] {
		if row["id"] == rowKey {
			m.rows[key][i] = fields.Clone()
			return nil
		}
	}
	return domain.ErrSheetNotFound
}

func (m *fakeMirror) AppendRow(_ context.Context, restaurantID, sheet string, fields domain.SheetRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appends++
	if m.writeErr != nil {
		return m.writeErr
	}
	key := restaurantID + "|" + sheet
	m.rows[key] = append(m.rows[key], fields.Clone())
	return nil
}

// --- store ---

type memStore struct {
	mu                 sync.Mutex
	tables             map[string]domain.TableRecord
	reservations       map[string]domain.ReservationRecord
	tableUpserts       int
	reservationUpserts int
	releases           int
}

func newMemStore() *memStore {
	return &memStore{
		tables:       make(map[string]domain.TableRecord),
		reservations: make(map[string]domain.ReservationRecord),
	}
}

func (s *memStore) table(id string) domain.TableRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[rid+"|"+id]
}

func (s *memStore) reservation(id string) domain.ReservationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[rid+"|"+id]
}

func (s *memStore) counts() (tables, reservations int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableUpserts, s.reservationUpserts
}

func (s *memStore) put(t domain.TableRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.RestaurantID+"|"+t.ID] = t
}

func (s *memStore) putReservation(r domain.ReservationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.RestaurantID+"|"+r.ID] = r
}

func (s *memStore) GetTableStates(_ context.Context, restaurantID string) ([]domain.TableRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TableRecord
	for _, t := range s.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) UpsertTable(_ context.Context, t domain.TableRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableUpserts++
	s.tables[t.RestaurantID+"|"+t.ID] = t
	return nil
}

func (s *memStore) GetReservations(_ context.Context, restaurantID, date string) ([]domain.ReservationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReservationRecord
	for _, r := range s.reservations {
		if r.RestaurantID == restaurantID && (date == "" || r.Date == date) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) UpsertReservation(_ context.Context, r domain.ReservationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservationUpserts++
	s.reservations[r.RestaurantID+"|"+r.ID] = r
	return nil
}

func (s *memStore) ReleaseTable(
	_ context.Context,
	restaurantID, tableID string,
	from domain.TableStatus,
	at time.Time,
) (ports.ReleaseOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[restaurantID+"|"+tableID]
	if !ok || t.Status != from {
		return ports.ReleaseOutcome{Table: t}, nil
	}
	t.Status = domain.TableFree
	t.OccupiedSince, t.ReservedUntil, t.ClientData = nil, nil, nil
	t.UpdatedAt = at
	s.tables[restaurantID+"|"+tableID] = t
	s.releases++

	var completed []domain.ReservationRecord
	for k, r := range s.reservations {
		if r.RestaurantID == restaurantID && r.TableID != nil && *r.TableID == tableID &&
			r.Status == domain.ReservationOccupied {
			r.Status = domain.ReservationCompleted
			r.UpdatedAt = at
			s.reservations[k] = r
			completed = append(completed, r)
		}
	}
	return ports.ReleaseOutcome{Released: true, Table: t, Completed: completed}, nil
}

// --- publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evs []domain.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

func (p *recordingPublisher) byType(typ domain.EventType) []domain.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.ChangeEvent
	for _, ev := range p.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// --- окружение ---

type env struct {
	clk    *clock.Manual
	mirror *fakeMirror
	store  *memStore
	pub    *recordingPublisher
	deps   usecase.Deps
	core   *usecase.CoreService
}

func settingsFor(id string) domain.RestaurantSettings {
	return domain.RestaurantSettings{
		ID:            id,
		SpreadsheetID: "sheet-" + id,
		Location:      madrid,
	}.WithDefaults()
}

func newEnv(t *testing.T, ids ...string) *env {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{rid}
	}
	reg := fakeRegistry{}
	for _, id := range ids {
		reg[id] = settingsFor(id)
	}

	e := &env{
		clk:    clock.NewManual(time.Date(2025, 10, 16, 22, 0, 1, 0, madrid)),
		mirror: newFakeMirror(),
		store:  newMemStore(),
		pub:    &recordingPublisher{},
	}
	cache := newCache(e)
	policy := usecase.RetryPolicy{Timeout: time.Second, MaxRetries: 2, Initial: time.Millisecond, Max: 2 * time.Millisecond}

	e.deps = usecase.Deps{
		Mirror:    e.mirror,
		Store:     e.store,
		Registry:  reg,
		Publisher: e.pub,
		Validator: validate.NewRecordValidator(),
		Clock:     e.clk,
		Log:       noopLogger{},
		Locks:     usecase.NewRestaurantLocks(50 * time.Millisecond),
		Outbox:    usecase.NewOutbox(),
		Reader:    usecase.NewSheetReader(e.mirror, cache, noopLogger{}, policy),
	}
	e.core = usecase.NewCoreService(e.deps, usecase.SyncOptions{PassTimeout: 5 * time.Second, BatchConcurrency: 2})
	return e
}

func newCache(e *env) ports.SheetCache {
	return memory.NewSheetCache(100, time.Minute, e.clk)
}

func at(hhmm string) *time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2025-10-16 "+hhmm, madrid)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }
