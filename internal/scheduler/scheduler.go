// Пакет scheduler — периодические проходы синхронизации и освобождения столов (robfig/cron).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Gunvolt24/mesasync/internal/domain"
	"github.com/Gunvolt24/mesasync/internal/ports"
)

// Jobs — пакетные операции ядра по всем ресторанам реестра.
type Jobs interface {
	SyncAllRestaurants(ctx context.Context, force bool) map[string]domain.SyncResult
	ReleaseAllRestaurants(ctx context.Context) map[string]domain.ReleaseResult
}

// Config — расписания в формате cron ("@every 3m", "*/30 * * * *").
// Пустое расписание отключает задачу.
type Config struct {
	SyncSpec    string
	ReleaseSpec string
	CoarseSpec  string
	JobTimeout  time.Duration
}

// DefaultConfig — синхронизация раз в 3 минуты, освобождение раз в 30 минут,
// грубый проход (принудительная синхронизация + освобождение) раз в час.
func DefaultConfig() Config {
	return Config{
		SyncSpec:    "@every 3m",
		ReleaseSpec: "@every 30m",
		CoarseSpec:  "@hourly",
		JobTimeout:  5 * time.Minute,
	}
}

// Scheduler — обёртка над cron.Cron с задачами ядра.
type Scheduler struct {
	cron    *cron.Cron
	jobs    Jobs
	log     ports.Logger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New — регистрирует задачи; ошибка, если расписание не разбирается.
// Задачи пропускаются, пока предыдущий запуск не закончился, паника перехватывается.
func New(cfg Config, jobs Jobs, log ports.Logger) (*Scheduler, error) {
	cl := NewCronLogger(log)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		jobs:    jobs,
		log:     log,
		timeout: cfg.JobTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultConfig().JobTimeout
	}

	entries := []struct {
		name string
		spec string
		fn   func()
	}{
		{"sync", cfg.SyncSpec, s.SyncPass},
		{"release", cfg.ReleaseSpec, s.ReleasePass},
		{"coarse", cfg.CoarseSpec, s.CoarsePass},
	}
	for _, e := range entries {
		if e.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(e.spec, e.fn); err != nil {
			cancel()
			return nil, fmt.Errorf("schedule %s %q: %w", e.name, e.spec, err)
		}
	}
	return s, nil
}

// Start — запуск планировщика в отдельной горутине.
func (s *Scheduler) Start() {
	s.log.Infof(s.ctx, "scheduler started jobs=%d", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop — остановить расписание и дождаться текущих задач (не дольше ctx).
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		s.log.Infof(ctx, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SyncPass — синхронизация всех ресторанов без force (троттлинг внутри ядра).
func (s *Scheduler) SyncPass() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	s.logSync(ctx, "sync", s.jobs.SyncAllRestaurants(ctx, false))
}

// ReleasePass — освобождение просроченных столов во всех ресторанах.
func (s *Scheduler) ReleasePass() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	s.logRelease(ctx, "release", s.jobs.ReleaseAllRestaurants(ctx))
}

// CoarsePass — страховочный проход: принудительная синхронизация, затем освобождение.
func (s *Scheduler) CoarsePass() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	s.logSync(ctx, "coarse sync", s.jobs.SyncAllRestaurants(ctx, true))
	s.logRelease(ctx, "coarse release", s.jobs.ReleaseAllRestaurants(ctx))
}

func (s *Scheduler) logSync(ctx context.Context, pass string, results map[string]domain.SyncResult) {
	synced, skipped, failed := 0, 0, 0
	for id, r := range results {
		switch {
		case r.Failed():
			failed++
			s.log.Warnf(ctx, "%s: restaurant=%s kind=%s: %v", pass, id, r.ErrorKind, r.Err)
		case r.Skipped:
			skipped++
		default:
			synced++
		}
	}
	s.log.Infof(ctx, "%s pass done synced=%d skipped=%d failed=%d", pass, synced, skipped, failed)
}

func (s *Scheduler) logRelease(ctx context.Context, pass string, results map[string]domain.ReleaseResult) {
	released, failed := 0, 0
	for id, r := range results {
		if r.Failed() {
			failed++
			s.log.Warnf(ctx, "%s: restaurant=%s kind=%s: %v", pass, id, r.ErrorKind, r.Err)
			continue
		}
		released += r.Released
	}
	s.log.Infof(ctx, "%s pass done released=%d failed=%d", pass, released, failed)
}
