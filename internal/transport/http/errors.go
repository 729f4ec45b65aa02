package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/usecase"
)

// errorStatus — HTTP-статус для ошибки ядра.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDateExpression):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownRestaurant):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLockContention):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSheetRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrSheetUnauthorized), errors.Is(err, domain.ErrSheetNotFound):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusServiceUnavailable
	}
}

// resultStatus — статус ответа для результата sync/release: тело всегда результат.
// Пасс по ресторану уже идёт — запрос принят, а не отклонён.
func resultStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrLockContention):
		return http.StatusAccepted
	default:
		return errorStatus(err)
	}
}

// logResult — сбой пасса в лог; конкуренция за ресторан сбоем не считается.
func (h *Handler) logResult(ctx context.Context, op, id, kind string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrLockContention):
		h.log.Infof(ctx, "%s coalesced restaurant=%s: pass already running", op, id)
	default:
		h.log.Warnf(ctx, "%s failed restaurant=%s kind=%s: %v", op, id, kind, err)
	}
}

// writeError — JSON-ответ об ошибке; для нераспознанной даты отдаём исходное выражение.
func (h *Handler) writeError(ctx context.Context, c *gin.Context, op string, err error, date domain.DateExpression) {
	status := errorStatus(err)
	body := gin.H{"error": err.Error(), "kind": domain.ErrorKind(err)}

	var invalid *domain.InvalidDateError
	if errors.As(err, &invalid) {
		body["raw"] = invalid.Raw
		if date.Kind == "" {
			date = domain.DateExpression{Raw: invalid.Raw, Kind: domain.DateInvalid}
		}
		body["date"] = date
	}
	if errors.Is(err, usecase.ErrInvalidQuery) {
		body["kind"] = "invalid_query"
	}

	if status >= http.StatusInternalServerError {
		h.log.Errorf(ctx, "%s failed: %v", op, err)
	}
	c.JSON(status, body)
}
