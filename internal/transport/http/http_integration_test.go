//go:build integration

package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/mesasync/internal/cache/memory"
	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/events"
	"github.com/Gunvolt24/mesasync/internal/registry"
	"github.com/Gunvolt24/mesasync/internal/testutil"
	rest "github.com/Gunvolt24/mesasync/internal/transport/http"
	"github.com/Gunvolt24/mesasync/internal/usecase"
	"github.com/Gunvolt24/mesasync/pkg/clock"
	"github.com/Gunvolt24/mesasync/pkg/logger"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

// 1) POST /sync → Postgres; затем доступность и освобождение по реальному хранилищу
func TestHTTP_Sync_Availability_Release_TC(t *testing.T) {
	store, _ := testutil.StartStoreTC(t)

	logg, cleanup, err := logger.NewZapLogger(false, "info")
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	restaurant := "rest-" + testutil.UniqSuffix()
	reg, err := registry.New(domain.RestaurantSettings{ID: restaurant, SpreadsheetID: "sheet"})
	require.NoError(t, err)

	// «сейчас» — 16.10.2025 23:30 UTC; стол T2 занят с 20:00 UTC, окно 2ч истекло
	clk := clock.NewManual(time.Date(2025, 10, 16, 23, 30, 0, 0, time.UTC))
	mirror := staticMirror{
		domain.SheetTables: {
			{"id": "T1", "zona": "terraza", "capacidad": "4", "estado": "libre"},
			{"id": "T2", "zona": "terraza", "capacidad": "4", "estado": "ocupada", "ocupada_desde": "20:00", "cliente": "Ana"},
			{"id": "T3", "zona": "salon", "capacidad": "2", "estado": "libre"},
		},
	}
	deps := usecase.Deps{
		Mirror:    mirror,
		Store:     store,
		Registry:  reg,
		Publisher: events.NewLogPublisher(logg),
		Validator: validate.NewRecordValidator(),
		Clock:     clk,
		Log:       logg,
		Locks:     usecase.NewRestaurantLocks(time.Second),
		Outbox:    usecase.NewOutbox(),
		Reader:    usecase.NewSheetReader(mirror, memory.NewSheetCache(100, time.Minute, clk), logg, usecase.DefaultRetryPolicy()),
	}
	core := usecase.NewCoreService(deps, usecase.SyncOptions{})

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(core, logg, 10*time.Second), ""))
	defer ts.Close()

	// sync
	got := postJSON(t, ts.URL+"/restaurants/"+restaurant+"/sync?force=true", http.StatusOK)
	require.Equal(t, true, got["synced"])
	require.Equal(t, float64(3), got["tables"].(map[string]any)["synced"])

	// доступность: в терразе 2 стола на 4 человек
	got = getJSON(t, ts.URL+"/restaurants/"+restaurant+"/availability?date=2025-10-17&party=4&zone=terraza", http.StatusOK)
	require.Equal(t, float64(2), got["candidate_tables"])
	require.Equal(t, true, got["available"])

	// освобождение просроченного T2; запись в таблицу падает → outbox
	got = postJSON(t, ts.URL+"/restaurants/"+restaurant+"/release", http.StatusOK)
	require.Equal(t, float64(1), got["released"])
	require.Equal(t, float64(1), got["pending_sheet_writes"])

	// неизвестный ресторан
	postJSON(t, ts.URL+"/restaurants/ghost/sync", http.StatusNotFound)
}

// 2) /ping, /metrics, 404 на неизвестный маршрут
func TestHTTP_Health_Metrics_And_404_TC(t *testing.T) {
	logg, cleanup, err := logger.NewZapLogger(false, "info")
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(slowCore{}, logg, 2*time.Second), "mesasync-test"))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "pong", string(readAll(t, resp.Body)))

	respM, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer respM.Body.Close()
	require.Equal(t, http.StatusOK, respM.StatusCode)
	require.NotEmpty(t, readAll(t, respM.Body))

	getJSON(t, ts.URL+"/no/such/route", http.StatusNotFound)
}

// 3) Таймаут запроса: медленное ядро → 504
func TestHTTP_ResolveDate_Timeout_504_TC(t *testing.T) {
	logg, cleanup, err := logger.NewZapLogger(false, "info")
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(slowCore{}, logg, 10*time.Millisecond), ""))
	defer ts.Close()

	got := getJSON(t, ts.URL+"/restaurants/r1/dates/resolve?raw=hoy", http.StatusGatewayTimeout)
	require.Contains(t, got["error"], "deadline exceeded")
}

// --- функции помощники ---

// staticMirror — фиксированные строки; запись всегда падает.
type staticMirror map[string][]domain.SheetRow

func (m staticMirror) ReadRows(_ context.Context, _, sheet string) ([]domain.SheetRow, error) {
	return m[sheet], nil
}

func (staticMirror) WriteRow(context.Context, string, string, string, domain.SheetRow) error {
	return domain.ErrUpstreamUnavailable
}

func (staticMirror) AppendRow(context.Context, string, string, domain.SheetRow) error {
	return domain.ErrUpstreamUnavailable
}

// slowCore — всегда ждёт ctx.Done().
type slowCore struct{}

func (slowCore) SyncIfNeeded(ctx context.Context, id string, _ bool) domain.SyncResult {
	<-ctx.Done()
	return domain.SyncResult{RestaurantID: id}.WithError(ctx.Err())
}

func (slowCore) ReleaseExpiredTables(ctx context.Context, id string) domain.ReleaseResult {
	<-ctx.Done()
	return domain.ReleaseResult{RestaurantID: id}.WithError(ctx.Err())
}

func (slowCore) ResolveDate(ctx context.Context, _, _ string, _ time.Time) (domain.DateExpression, error) {
	<-ctx.Done()
	return domain.DateExpression{}, ctx.Err()
}

func (slowCore) CheckAvailability(ctx context.Context, _ domain.AvailabilityQuery) (domain.Availability, error) {
	<-ctx.Done()
	return domain.Availability{}, errors.Join(domain.ErrUpstreamUnavailable, ctx.Err())
}

func postJSON(t *testing.T, url string, want int) map[string]any {
	t.Helper()
	resp, err := http.Post(url, "application/json", http.NoBody)
	require.NoError(t, err)
	defer resp.Body.Close()
	return decodeBody(t, resp, want)
}

func getJSON(t *testing.T, url string, want int) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	return decodeBody(t, resp, want)
}

func decodeBody(t *testing.T, resp *http.Response, want int) map[string]any {
	t.Helper()
	body := readAll(t, resp.Body)
	require.Equal(t, want, resp.StatusCode, "body=%s", body)
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	return got
}

// readAll — просто прочитать тело.
func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}
