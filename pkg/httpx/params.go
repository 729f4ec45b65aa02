package httpx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseBool — булев query-параметр: true/1/yes/on (регистр не важен), иначе false.
// Параметр без значения (?force) считается true.
func ParseBool(c *gin.Context, key string) bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// ParsePartySize — размер компании из query с дефолтом и границами [1, maxParty].
// Нечисловое значение — ошибка: молча подставлять дефолт в бронь нельзя.
func ParsePartySize(c *gin.Context, key string, def, maxParty int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return ClampInt(v, 1, maxParty), nil
}

// ParseReference — опорный момент из query: пусто → нулевое время (сейчас),
// RFC3339 → как есть, YYYY-MM-DD → полдень UTC этого дня
// (в пределах ±11ч от UTC локальная дата не меняется).
func ParseReference(c *gin.Context, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD or RFC3339, got %q", key, raw)
	}
	return d.Add(12 * time.Hour), nil
}
