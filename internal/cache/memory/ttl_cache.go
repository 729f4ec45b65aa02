package memory

import (
	"container/list"
	"context"
	"path"
	"sync"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/pkg/clock"
	"github.com/Gunvolt24/mesasync/pkg/metrics"
)

// Проверка, что кэш строк листов удовлетворяет порту.
var _ ports.SheetCache = (*TTLCache[[]domain.SheetRow])(nil)

type entry[V any] struct {
	key       string
	value     V
	storedAt  time.Time
	expiresAt time.Time // нулевое значение — без срока
}

// TTLCache — LRU-кэш с фиксированным сроком жизни записи.
// Срок не продлевается при чтении: запись валидна, пока now < storedAt + ttl.
type TTLCache[V any] struct {
	capacity   int
	defaultTTL time.Duration
	clock      ports.Clock
	clone      func(V) V

	ll    *list.List
	index map[string]*list.Element

	hits   uint64
	misses uint64

	mu sync.Mutex
}

// NewTTLCache — DI-конструктор. clk == nil → системное время; clone == nil → значения отдаются как есть.
// defaultTTL <= 0 — записи без срока, если срок не передан в Set.
func NewTTLCache[V any](capacity int, defaultTTL time.Duration, clk ports.Clock, clone func(V) V) *TTLCache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &TTLCache[V]{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		clock:      clk,
		clone:      clone,
		ll:         list.New(),
		index:      make(map[string]*list.Element),
	}
}

// NewSheetCache — кэш строк листов, отдающий глубокие копии.
func NewSheetCache(capacity int, defaultTTL time.Duration, clk ports.Clock) *TTLCache[[]domain.SheetRow] {
	return NewTTLCache[[]domain.SheetRow](capacity, defaultTTL, clk, domain.CloneRows)
}

func (c *TTLCache[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		c.misses++
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return zero, false
	}
	ent := elem.Value.(*entry[V])
	if isExpired(ent, now) {
		c.misses++
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return zero, false
	}
	c.ll.MoveToFront(elem)

	c.hits++
	metrics.CacheOps.WithLabelValues("hit").Inc()
	return c.copyOf(ent.value), true
}

// Set — сохранить значение; ttl <= 0 → TTL по умолчанию.
func (c *TTLCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = c.copyOf(value)
		ent.storedAt = now
		ent.expiresAt = expiryFrom(now, ttl)
		c.ll.MoveToFront(elem)
		return
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry[V]{
		key:       key,
		value:     c.copyOf(value),
		storedAt:  now,
		expiresAt: expiryFrom(now, ttl),
	})
	c.index[key] = elem
	metrics.CacheSize.Set(float64(len(c.index)))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
}

func (c *TTLCache[V]) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		c.removeElement(elem)
		metrics.CacheOps.WithLabelValues("invalidated").Inc()
		metrics.CacheSize.Set(float64(len(c.index)))
	}
}

// InvalidatePattern — удалить ключи, подходящие под glob (синтаксис path.Match).
// Некорректный шаблон ничего не удаляет.
func (c *TTLCache[V]) InvalidatePattern(_ context.Context, pattern string) int {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, elem := range c.index {
		if ok, _ := path.Match(pattern, key); ok {
			c.removeElement(elem)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheOps.WithLabelValues("invalidated").Add(float64(removed))
		metrics.CacheSize.Set(float64(len(c.index)))
	}
	return removed
}

// Stats — размер (включая ещё не вычищенные истёкшие записи) и счётчики попаданий.
func (c *TTLCache[V]) Stats() ports.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ports.CacheStats{Size: len(c.index), Hits: c.hits, Misses: c.misses}
}

// ------вспомогательные функции------

func (c *TTLCache[V]) copyOf(v V) V {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}

func (c *TTLCache[V]) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
		metrics.CacheSize.Set(float64(len(c.index)))
	}
}

func (c *TTLCache[V]) removeElement(elem *list.Element) {
	ent := elem.Value.(*entry[V])
	delete(c.index, ent.key)
	c.ll.Remove(elem)
}

func (c *TTLCache[V]) pruneExpiredFromBack(now time.Time) {
	for {
		back := c.ll.Back()
		if back == nil {
			return
		}
		if !isExpired(back.Value.(*entry[V]), now) {
			return
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("expired").Inc()
		metrics.CacheSize.Set(float64(len(c.index)))
	}
}

func isExpired[V any](ent *entry[V], now time.Time) bool {
	if ent.expiresAt.IsZero() {
		return false
	}
	return !now.Before(ent.expiresAt)
}

func expiryFrom(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
