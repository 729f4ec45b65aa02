package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Gunvolt24/mesasync/internal/domain"
)

// RestaurantLocks — взаимоисключение пассов (sync/release) в пределах одного ресторана.
// Разные рестораны не блокируют друг друга.
type RestaurantLocks struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
	wait time.Duration
}

// NewRestaurantLocks — wait ограничивает ожидание входа; wait <= 0 — ждать до отмены ctx.
func NewRestaurantLocks(wait time.Duration) *RestaurantLocks {
	return &RestaurantLocks{
		sems: make(map[string]*semaphore.Weighted),
		wait: wait,
	}
}

// Acquire — войти в секцию ресторана. Возвращает функцию выхода.
// Если секцию не удалось занять за wait — domain.ErrLockContention.
func (l *RestaurantLocks) Acquire(ctx context.Context, restaurantID string) (func(), error) {
	sem := l.semaphore(restaurantID)

	waitCtx, cancel := ctx, context.CancelFunc(func() {})
	if l.wait > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, l.wait)
	}
	defer cancel()

	if err := sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: restaurant=%s waited=%s", domain.ErrLockContention, restaurantID, l.wait)
	}
	return func() { sem.Release(1) }, nil
}

func (l *RestaurantLocks) semaphore(restaurantID string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.sems[restaurantID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[restaurantID] = sem
	}
	return sem
}
