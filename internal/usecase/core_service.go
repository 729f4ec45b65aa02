package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

var _ ports.CoreService = (*CoreService)(nil)

// CoreService — фасад ядра для транспорта (HTTP, Kafka, CLI, планировщик).
type CoreService struct {
	sync         *SyncService
	release      *ReleaseService
	availability *AvailabilityService
	registry     ports.RestaurantRegistry
	log          ports.Logger
}

// NewCoreService — DI-конструктор.
func NewCoreService(deps Deps, opts SyncOptions) *CoreService {
	return &CoreService{
		sync:         NewSyncService(deps, opts),
		release:      NewReleaseService(deps, opts),
		availability: NewAvailabilityService(deps),
		registry:     deps.Registry,
		log:          deps.Log,
	}
}

func (c *CoreService) SyncIfNeeded(ctx context.Context, restaurantID string, force bool) domain.SyncResult {
	return c.sync.SyncIfNeeded(ctx, restaurantID, force)
}

func (c *CoreService) ReleaseExpiredTables(ctx context.Context, restaurantID string) domain.ReleaseResult {
	return c.release.ReleaseExpiredTables(ctx, restaurantID)
}

func (c *CoreService) ResolveDate(ctx context.Context, restaurantID, raw string, reference time.Time) (domain.DateExpression, error) {
	return c.availability.ResolveDate(ctx, restaurantID, raw, reference)
}

func (c *CoreService) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	return c.availability.CheckAvailability(ctx, q)
}

// SyncAllRestaurants — SyncIfNeeded по всем ресторанам реестра.
func (c *CoreService) SyncAllRestaurants(ctx context.Context, force bool) map[string]domain.SyncResult {
	return c.sync.SyncMany(ctx, c.registry.IDs(), force)
}

// ReleaseAllRestaurants — проход авто-освобождения по всем ресторанам реестра.
func (c *CoreService) ReleaseAllRestaurants(ctx context.Context) map[string]domain.ReleaseResult {
	return c.release.ReleaseMany(ctx, c.registry.IDs())
}

// SyncFromMessage — синхронизация по сообщению из Kafka (raw JSON SyncTrigger).
// Ошибки разделяются так:
//   - validate.ErrInvalidTrigger и постоянные ошибки (неизвестный ресторан, нет доступа) —
//     повтор бесполезен, сообщение можно коммитить;
//   - конкуренция за секцию ресторана — пасс уже идёт, считаем успехом;
//   - остальное временно, сообщение будет прочитано снова.
func (c *CoreService) SyncFromMessage(ctx context.Context, raw []byte) error {
	trigger, err := validate.TriggerFromJSON(raw)
	if err != nil {
		c.log.Warnf(ctx, "invalid sync trigger err=%v", err)
		return err
	}

	res := c.sync.SyncIfNeeded(ctx, trigger.RestaurantID, trigger.Force)
	switch {
	case res.Err == nil:
		return nil
	case errors.Is(res.Err, domain.ErrLockContention):
		c.log.Infof(ctx, "sync trigger restaurant=%s: pass already running", trigger.RestaurantID)
		return nil
	case domain.IsPermanent(res.Err):
		return fmt.Errorf("%w: %w", validate.ErrInvalidTrigger, res.Err)
	default:
		return res.Err
	}
}
