package app_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/mesasync/config"
	"github.com/Gunvolt24/mesasync/internal/app"
	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/scheduler"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый консьюмер, который ждёт отмены контекста
type fakeConsumer struct {
	runCalls   int32
	closeCalls int32
}

func (f *fakeConsumer) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	<-ctx.Done()
	return ctx.Err()
}
func (f *fakeConsumer) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

// фейковые задачи планировщика
type fakeJobs struct{ syncs int32 }

func (f *fakeJobs) SyncAllRestaurants(context.Context, bool) map[string]domain.SyncResult {
	atomic.AddInt32(&f.syncs, 1)
	return nil
}

func (f *fakeJobs) ReleaseAllRestaurants(context.Context) map[string]domain.ReleaseResult {
	return nil
}

func TestAppRun_GracefulShutdown(t *testing.T) {
	// HTTP-сервер на случайном свободном порту
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	fc := &fakeConsumer{}
	a := &app.App{
		Logger:        nopLogger{},
		HTTPServer:    srv,
		KafkaConsumer: fc,
	}

	// Запуск и быстрая остановка
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if atomic.LoadInt32(&fc.runCalls) == 0 {
		t.Fatalf("consumer.Run should be called")
	}
	if atomic.LoadInt32(&fc.closeCalls) == 0 {
		t.Fatalf("consumer.Close should be called")
	}
}

// Без Kafka, с планировщиком: задачи успевают отработать, Run корректно завершается.
func TestAppRun_WithScheduler_NoConsumer(t *testing.T) {
	jobs := &fakeJobs{}
	sched, err := scheduler.New(scheduler.Config{SyncSpec: "@every 1s"}, jobs, nopLogger{})
	require.NoError(t, err)

	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		Scheduler:  sched,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	require.NoError(t, a.Run(ctx))
	require.GreaterOrEqual(t, atomic.LoadInt32(&jobs.syncs), int32(1))
}

func loadConfig(t *testing.T) config.Config {
	t.Helper()
	c, err := config.LoadWithPrefix("MESA_TEST_BOOTSTRAP")
	require.NoError(t, err)
	c.Logger.Level = "error"
	return c
}

func TestBootstrap_MissingRegistry(t *testing.T) {
	c := loadConfig(t)
	c.Registry.File = filepath.Join(t.TempDir(), "nope.yaml")

	a, cleanup, err := app.Bootstrap(context.Background(), &c)
	require.Error(t, err)
	require.Nil(t, a)
	cleanup()
}

func TestBootstrap_UnsupportedStore(t *testing.T) {
	dir := t.TempDir()
	regFile := filepath.Join(dir, "restaurants.yaml")
	require.NoError(t, os.WriteFile(regFile, []byte(`
restaurants:
  - id: r1
    spreadsheet_id: sheet-r1
`), 0o600))

	c := loadConfig(t)
	c.Registry.File = regFile
	c.Store.Driver = "oracle"

	a, cleanup, err := app.Bootstrap(context.Background(), &c)
	require.ErrorContains(t, err, "unsupported store driver")
	require.Nil(t, a)
	cleanup()
}
