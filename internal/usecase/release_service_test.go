package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports/mocks"
	"github.com/Gunvolt24/mesasync/internal/usecase"
)

func occupiedT1(since *time.Time) domain.TableRecord {
	return domain.TableRecord{
		RestaurantID: rid, ID: "T1", Zone: "terraza", Capacity: 4,
		Status: domain.TableOccupied, OccupiedSince: since,
		ClientData: &domain.ClientData{Name: "Ana", Phone: "600111222"},
		UpdatedAt:  *since,
	}
}

func TestReleaseExpiredTables_OccupiedPastWindow_OneSheetWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	e := newEnv(t)
	e.store.put(occupiedT1(at("20:00")))

	mirror := mocks.NewMockSpreadsheetMirror(ctrl)
	mirror.EXPECT().
		WriteRow(gomock.Any(), rid, domain.SheetTables, "T1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _ string, row domain.SheetRow) error {
			if row["estado"] != "libre" || row["cliente"] != "" || row["ocupada_desde"] != "" {
				t.Errorf("unexpected row written: %v", row)
			}
			return nil
		}).
		Times(1)
	e.deps.Reader = usecase.NewSheetReader(mirror, newCache(e), noopLogger{}, usecase.RetryPolicy{Timeout: time.Second})
	svc := usecase.NewReleaseService(e.deps, usecase.SyncOptions{})

	res := svc.ReleaseExpiredTables(context.Background(), rid)

	require.NoError(t, res.Err)
	require.Equal(t, 1, res.Released)
	require.Zero(t, res.PendingSheetWrites)

	t1 := e.store.table("T1")
	require.Equal(t, domain.TableFree, t1.Status)
	require.Nil(t, t1.OccupiedSince)
	require.Nil(t, t1.ClientData)

	evs := e.pub.byType(domain.EventTableStatusChanged)
	require.Len(t, evs, 1)
	require.Equal(t, "T1", evs[0].EntityID)
}

func TestReleaseExpiredTables_WithinWindowUntouched(t *testing.T) {
	e := newEnv(t)
	e.clk.Set(*at("21:59"))
	e.store.put(occupiedT1(at("20:00")))

	res := e.core.ReleaseExpiredTables(context.Background(), rid)

	require.NoError(t, res.Err)
	require.Zero(t, res.Released)
	require.Equal(t, domain.TableOccupied, e.store.table("T1").Status)
	require.Zero(t, e.mirror.writeCount())
	require.Zero(t, e.pub.count())
}

func TestReleaseExpiredTables_ExactlyAtWindow(t *testing.T) {
	e := newEnv(t)
	e.clk.Set(*at("22:00"))
	e.store.put(occupiedT1(at("20:00")))

	res := e.core.ReleaseExpiredTables(context.Background(), rid)
	require.Equal(t, 1, res.Released)
}

func TestExpired(t *testing.T) {
	settings := settingsFor(rid)
	nextDay := time.Date(2025, 10, 17, 0, 0, 0, 0, madrid)

	tests := []struct {
		name  string
		table domain.TableRecord
		now   time.Time
		want  bool
	}{
		{"occupied before window", occupiedT1(at("20:00")), *at("21:59"), false},
		{"occupied at window", occupiedT1(at("20:00")), *at("22:00"), true},
		{"reserved at deadline", domain.TableRecord{Status: domain.TableReserved, ReservedUntil: at("21:15")}, *at("21:15"), false},
		{"reserved past deadline", domain.TableRecord{Status: domain.TableReserved, ReservedUntil: at("21:15")}, at("21:15").Add(time.Second), true},
		{"all day same day", domain.TableRecord{Status: domain.TableOccupiedAllDay, OccupiedSince: at("09:00")}, *at("23:59"), false},
		{"all day next day", domain.TableRecord{Status: domain.TableOccupiedAllDay, OccupiedSince: at("09:00")}, nextDay, true},
		{"maintenance", domain.TableRecord{Status: domain.TableMaintenance, OccupiedSince: at("09:00")}, nextDay, false},
		{"free", domain.TableRecord{Status: domain.TableFree}, nextDay, false},
		{"occupied without since", domain.TableRecord{Status: domain.TableOccupied}, nextDay, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := usecase.Expired(tc.table, settings, tc.now); got != tc.want {
				t.Fatalf("Expired() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReleaseExpiredTables_ConcurrentCallsReleaseOnce(t *testing.T) {
	e := newEnv(t)
	e.store.put(occupiedT1(at("20:00")))
	e.mirror.set(rid, domain.SheetTables, domain.SheetRow{"id": "T1", "estado": "ocupada"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.core.ReleaseExpiredTables(context.Background(), rid)
		}()
	}
	wg.Wait()

	require.Len(t, e.pub.byType(domain.EventTableStatusChanged), 1)
	require.Equal(t, 1, e.store.releases)
	require.Equal(t, 1, e.mirror.writeCount())
}

func TestReleaseExpiredTables_CompletesSeatedReservation(t *testing.T) {
	e := newEnv(t)
	e.store.put(occupiedT1(at("20:00")))
	e.store.putReservation(domain.ReservationRecord{
		RestaurantID: rid, ID: "R9", Date: "2025-10-16", Time: "20:00", PartySize: 2,
		CustomerName: "Ana", TableID: strPtr("T1"), Status: domain.ReservationOccupied,
	})
	e.mirror.set(rid, domain.SheetTables, domain.SheetRow{"id": "T1", "estado": "ocupada"})

	res := e.core.ReleaseExpiredTables(context.Background(), rid)

	require.Equal(t, 1, res.Released)
	require.Equal(t, domain.ReservationCompleted, e.store.reservation("R9").Status)
	evs := e.pub.byType(domain.EventReservationSynced)
	require.Len(t, evs, 1)
	require.Equal(t, "R9", evs[0].EntityID)
}

func TestReleaseExpiredTables_MissingSheetRowAppended(t *testing.T) {
	e := newEnv(t)
	e.store.put(occupiedT1(at("20:00")))

	res := e.core.ReleaseExpiredTables(context.Background(), rid)

	require.NoError(t, res.Err)
	require.Equal(t, 1, e.mirror.writeCount())
	require.Equal(t, 1, e.mirror.appends)
	require.Zero(t, res.PendingSheetWrites)
}

func TestReleaseExpiredTables_FailedWriteGoesToOutbox(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.put(occupiedT1(at("20:00")))
	e.mirror.set(rid, domain.SheetTables, domain.SheetRow{"id": "T1", "estado": "ocupada", "cliente": "Ana"})
	e.mirror.failWrites(domain.ErrSheetRateLimited)

	res := e.core.ReleaseExpiredTables(ctx, rid)
	require.NoError(t, res.Err)
	require.Equal(t, 1, res.Released)
	require.Equal(t, 1, res.PendingSheetWrites)
	require.Equal(t, domain.TableFree, e.store.table("T1").Status)

	// таблица ещё показывает ocupada: локальное состояние не откатывается
	synced := e.core.SyncIfNeeded(ctx, rid, true)
	require.NoError(t, synced.Err)
	require.Equal(t, domain.TableFree, e.store.table("T1").Status)

	e.mirror.failWrites(nil)
	e.clk.Advance(30 * time.Minute)
	res = e.core.ReleaseExpiredTables(ctx, rid)
	require.NoError(t, res.Err)
	require.Zero(t, res.Released)
	require.Zero(t, res.PendingSheetWrites)

	rows, err := e.mirror.ReadRows(ctx, rid, domain.SheetTables)
	require.NoError(t, err)
	require.Equal(t, "libre", rows[0]["estado"])
}

func TestReleaseExpiredTables_LockContention(t *testing.T) {
	e := newEnv(t)
	e.store.put(occupiedT1(at("20:00")))

	unlock, err := e.deps.Locks.Acquire(context.Background(), rid)
	require.NoError(t, err)
	defer unlock()

	res := e.core.ReleaseExpiredTables(context.Background(), rid)
	require.ErrorIs(t, res.Err, domain.ErrLockContention)
	require.Equal(t, "lock_contention", res.ErrorKind)
	require.Equal(t, domain.TableOccupied, e.store.table("T1").Status)
}

func TestReleaseAllRestaurants(t *testing.T) {
	e := newEnv(t, "r1", "r2")
	e.store.put(occupiedT1(at("20:00")))

	results := e.core.ReleaseAllRestaurants(context.Background())

	require.Len(t, results, 2)
	require.Equal(t, 1, results["r1"].Released)
	require.Zero(t, results["r2"].Released)
	require.NoError(t, results["r2"].Err)
}
