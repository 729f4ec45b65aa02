package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

// RetryPolicy — повторы вызовов таблицы.
type RetryPolicy struct {
	Timeout    time.Duration // общий бюджет на один вызов вместе с повторами
	MaxRetries uint64
	Initial    time.Duration
	Max        time.Duration
}

// DefaultRetryPolicy — политика по умолчанию.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:    20 * time.Second,
		MaxRetries: 3,
		Initial:    500 * time.Millisecond,
		Max:        5 * time.Second,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	if p.Initial <= 0 {
		p.Initial = def.Initial
	}
	if p.Max < p.Initial {
		p.Max = p.Initial
	}
	return p
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.Initial
	eb.MaxInterval = p.Max
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)
}

// SheetReader — чтение листов через кэш: попадание не ходит в таблицу,
// одновременные промахи по одному ключу дают один запрос.
type SheetReader struct {
	mirror ports.SpreadsheetMirror
	cache  ports.SheetCache
	log    ports.Logger
	policy RetryPolicy
	group  singleflight.Group
}

// NewSheetReader — DI-конструктор.
func NewSheetReader(mirror ports.SpreadsheetMirror, cache ports.SheetCache, log ports.Logger, policy RetryPolicy) *SheetReader {
	return &SheetReader{
		mirror: mirror,
		cache:  cache,
		log:    log,
		policy: policy.withDefaults(),
	}
}

// Read — строки листа sheet ресторана; ключ кэша prefix:<id>, TTL из настроек ресторана.
func (r *SheetReader) Read(ctx context.Context, settings domain.RestaurantSettings, sheet, prefix string) ([]domain.SheetRow, error) {
	key := domain.CacheKey(prefix, settings.ID)
	if rows, ok := r.cache.Get(ctx, key); ok {
		return rows, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		rows, err := r.withRetry(ctx, "read "+sheet, func(ctx context.Context) ([]domain.SheetRow, error) {
			return r.mirror.ReadRows(ctx, settings.ID, sheet)
		})
		if err != nil {
			return nil, err
		}
		r.cache.Set(ctx, key, rows, settings.CacheTTL)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.CloneRows(v.([]domain.SheetRow)), nil
}

// Invalidate — сбросить закэшированные листы ресторана.
func (r *SheetReader) Invalidate(ctx context.Context, restaurantID string, prefixes ...string) int {
	if len(prefixes) == 0 {
		return r.cache.InvalidatePattern(ctx, "*:"+restaurantID)
	}
	for _, p := range prefixes {
		r.cache.Invalidate(ctx, domain.CacheKey(p, restaurantID))
	}
	return len(prefixes)
}

// WriteTable — одна попытка записать строку стола: WriteRow, при отсутствии строки AppendRow.
func (r *SheetReader) WriteTable(ctx context.Context, restaurantID, tableID string, row domain.SheetRow) error {
	ctx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()

	err := r.mirror.WriteRow(ctx, restaurantID, domain.SheetTables, tableID, row)
	if errors.Is(err, domain.ErrSheetNotFound) {
		err = r.mirror.AppendRow(ctx, restaurantID, domain.SheetTables, row)
	}
	if err != nil {
		return upstreamError(err)
	}
	r.cache.Invalidate(ctx, domain.CacheKey(domain.CachePrefixTables, restaurantID))
	return nil
}

// withRetry — повтор временных ошибок с экспоненциальной паузой в пределах policy.Timeout.
func (r *SheetReader) withRetry(
	ctx context.Context,
	op string,
	fn func(ctx context.Context) ([]domain.SheetRow, error),
) ([]domain.SheetRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()

	var rows []domain.SheetRow
	operation := func() error {
		var err error
		rows, err = fn(ctx)
		if err != nil && domain.IsPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		r.log.Warnf(ctx, "%s failed, retry in %s err=%v", op, wait, err)
	}

	if err := backoff.RetryNotify(operation, r.policy.backOff(ctx), notify); err != nil {
		return nil, upstreamError(err)
	}
	return rows, nil
}

// upstreamError — оставляет различимые ошибки таблицы как есть, прочее → ErrUpstreamUnavailable.
func upstreamError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSheetRateLimited),
		errors.Is(err, domain.ErrSheetUnauthorized),
		errors.Is(err, domain.ErrSheetNotFound),
		errors.Is(err, domain.ErrUpstreamUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
}
