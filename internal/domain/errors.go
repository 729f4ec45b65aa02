package domain

import "errors"

// Таксономия ошибок ядра.
var (
	// ErrUpstreamUnavailable — сбой I/O таблицы или хранилища; повтор в следующем цикле.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInvalidDateExpression — выражение даты не распознано.
	ErrInvalidDateExpression = errors.New("invalid date expression")
	// ErrConflictingWrite — локальное состояние и таблица расходятся; решается last-write-wins.
	ErrConflictingWrite = errors.New("conflicting write")
	// ErrLockContention — не удалось за отведённое время войти в секцию ресторана.
	ErrLockContention = errors.New("lock contention")
	// ErrUnknownRestaurant — ресторан не зарегистрирован.
	ErrUnknownRestaurant = errors.New("unknown restaurant")
)

// Ошибки внешней таблицы (различаются между собой).
var (
	ErrSheetRateLimited  = errors.New("spreadsheet rate limited")
	ErrSheetUnauthorized = errors.New("spreadsheet unauthorized")
	ErrSheetNotFound     = errors.New("spreadsheet row or sheet not found")
)

// ErrorKind — короткий код ошибки для результатов и метрик.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidDateExpression):
		return "invalid_date"
	case errors.Is(err, ErrLockContention):
		return "lock_contention"
	case errors.Is(err, ErrUnknownRestaurant):
		return "unknown_restaurant"
	case errors.Is(err, ErrSheetRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrSheetUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrSheetNotFound):
		return "not_found"
	case errors.Is(err, ErrConflictingWrite):
		return "conflict"
	default:
		return "upstream_unavailable"
	}
}

// IsPermanent — повтор не поможет (нужно вмешательство человека).
func IsPermanent(err error) bool {
	return errors.Is(err, ErrSheetUnauthorized) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrUnknownRestaurant) ||
		errors.Is(err, ErrInvalidDateExpression)
}
