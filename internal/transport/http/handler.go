// Пакет rest — HTTP-поверхность триггеров ядра (gin).
package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/pkg/ctxmeta"
	"github.com/Gunvolt24/mesasync/pkg/httpx"
)

const (
	defaultPartySize = 2
	maxPartySize     = 50
)

// Handler — обработчики запросов; timeout ограничивает вызов ядра.
type Handler struct {
	service ports.CoreService
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — DI-конструктор. timeout <= 0 — без ограничения сверх контекста запроса.
func NewHandler(service ports.CoreService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

// requestContext — контекст запроса с id ресторана и таймаутом.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc, string) {
	id := strings.TrimSpace(c.Param("id"))
	ctx := ctxmeta.WithRestaurantID(c.Request.Context(), id)
	if h.timeout <= 0 {
		return ctx, func() {}, id
	}
	timed, cancel := context.WithTimeout(ctx, h.timeout)
	return timed, cancel, id
}

// POST /restaurants/:id/sync?force=true
func (h *Handler) sync(c *gin.Context) {
	ctx, cancel, id := h.requestContext(c)
	defer cancel()

	res := h.service.SyncIfNeeded(ctx, id, httpx.ParseBool(c, "force"))
	h.logResult(ctx, "sync", id, res.ErrorKind, res.Err)
	c.JSON(resultStatus(res.Err), res)
}

// POST /restaurants/:id/release
func (h *Handler) release(c *gin.Context) {
	ctx, cancel, id := h.requestContext(c)
	defer cancel()

	res := h.service.ReleaseExpiredTables(ctx, id)
	h.logResult(ctx, "release", id, res.ErrorKind, res.Err)
	c.JSON(resultStatus(res.Err), res)
}

// GET /restaurants/:id/dates/resolve?raw=mañana&ref=2025-10-16
func (h *Handler) resolveDate(c *gin.Context) {
	ctx, cancel, id := h.requestContext(c)
	defer cancel()

	raw := c.Query("raw")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "raw is required"})
		return
	}
	ref, err := httpx.ParseReference(c, "ref")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expr, err := h.service.ResolveDate(ctx, id, raw, ref)
	if err != nil {
		h.writeError(ctx, c, "ResolveDate", err, expr)
		return
	}
	c.JSON(http.StatusOK, expr)
}

// GET /restaurants/:id/availability?date=..&time=..&party=..&zone=..&ref=..
func (h *Handler) availability(c *gin.Context) {
	ctx, cancel, id := h.requestContext(c)
	defer cancel()

	party, err := httpx.ParsePartySize(c, "party", defaultPartySize, maxPartySize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := httpx.ParseReference(c, "ref")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.service.CheckAvailability(ctx, domain.AvailabilityQuery{
		RestaurantID: id,
		RawDate:      c.DefaultQuery("date", "hoy"),
		Time:         strings.TrimSpace(c.Query("time")),
		PartySize:    party,
		Zone:         strings.TrimSpace(c.Query("zone")),
		Reference:    ref,
	})
	if err != nil {
		h.writeError(ctx, c, "CheckAvailability", err, out.Date)
		return
	}
	c.JSON(http.StatusOK, out)
}
