//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// --- Бенчмарки ---

// Базовый бенч: разрешение даты — сравниваем LEAN vs FULL пайплайн
func BenchmarkHTTP_ResolveDate(b *testing.B) {
	h := NewHandler(stubCore{}, nopLogger{}, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServe(b, lean, http.MethodGet, "/restaurants/r1/dates/resolve?raw=ma%C3%B1ana")
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServe(b, full, http.MethodGet, "/restaurants/r1/dates/resolve?raw=ma%C3%B1ana")
	})
}

// Потолок без маршалинга: тот же ответ, но заранее закодированный JSON
func BenchmarkHTTP_ResolveDate_PreMarshaledBytes(b *testing.B) {
	raw, _ := json.Marshal(domain.DateExpression{Raw: "mañana", Date: "2025-10-17", Kind: domain.DateRelativeDay})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/restaurants/:id/dates/resolve", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", raw)
	})

	benchServe(b, r, http.MethodGet, "/restaurants/r1/dates/resolve?raw=ma%C3%B1ana")
}

// Доступность: самый «тяжёлый» по параметрам эндпоинт
func BenchmarkHTTP_Availability(b *testing.B) {
	h := NewHandler(stubCore{}, nopLogger{}, 2*time.Second)
	benchServe(b, makeLeanRouter(h), http.MethodGet,
		"/restaurants/r1/availability?date=viernes&time=21:00&party=4&zone=terraza")
}

// Синхронизация, пропущенная троттлингом: стоимость POST без работы ядра
func BenchmarkHTTP_SyncSkipped(b *testing.B) {
	h := NewHandler(stubCore{}, nopLogger{}, 2*time.Second)
	benchServe(b, makeLeanRouter(h), http.MethodPost, "/restaurants/r1/sync")
}

// Ошибочный путь (404): "цена" роутера и 404-хендлера
func BenchmarkHTTP_404(b *testing.B) {
	h := NewHandler(stubCore{}, nopLogger{}, 2*time.Second)
	r := makeFullRouter(h)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/nope", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusNotFound {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}

// --- nopLogger — логгер, который не делает ничего. ---

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы ---

type stubCore struct{}

func (stubCore) SyncIfNeeded(_ context.Context, id string, _ bool) domain.SyncResult {
	return domain.SyncResult{RestaurantID: id, Skipped: true}
}

func (stubCore) ReleaseExpiredTables(_ context.Context, id string) domain.ReleaseResult {
	return domain.ReleaseResult{RestaurantID: id}
}

func (stubCore) ResolveDate(_ context.Context, _, raw string, _ time.Time) (domain.DateExpression, error) {
	return domain.DateExpression{Raw: raw, Date: "2025-10-17", Kind: domain.DateRelativeDay}, nil
}

func (stubCore) CheckAvailability(_ context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	return domain.Availability{
		RestaurantID:    q.RestaurantID,
		Date:            domain.DateExpression{Raw: q.RawDate, Date: "2025-10-17", Kind: domain.DateWeekdayName},
		Time:            q.Time,
		CandidateTables: 4,
		Booked:          1,
		Available:       true,
	}, nil
}

// --- функции-помощники ---

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New() // без Recovery/otel/logger — получаем меньшую аллокацию
	r.POST("/restaurants/:id/sync", h.sync)
	r.GET("/restaurants/:id/dates/resolve", h.resolveDate)
	r.GET("/restaurants/:id/availability", h.availability)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	// prod пайплайн из NewRouter
	return NewRouter(h, "")
}

func benchServe(b *testing.B, r *gin.Engine, method, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	// Параллельный режим ближе к реальности без TCP
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(method, path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusOK {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
