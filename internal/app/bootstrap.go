package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"github.com/Gunvolt24/mesasync/config"
	cachemem "github.com/Gunvolt24/mesasync/internal/cache/memory"
	"github.com/Gunvolt24/mesasync/internal/events"
	"github.com/Gunvolt24/mesasync/internal/kafka"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/internal/registry"
	"github.com/Gunvolt24/mesasync/internal/scheduler"
	"github.com/Gunvolt24/mesasync/internal/sheets"
	rest "github.com/Gunvolt24/mesasync/internal/transport/http"
	"github.com/Gunvolt24/mesasync/internal/usecase"
	"github.com/Gunvolt24/mesasync/pkg/clock"
	"github.com/Gunvolt24/mesasync/pkg/logger"
	"github.com/Gunvolt24/mesasync/pkg/metrics"
	"github.com/Gunvolt24/mesasync/pkg/telemetry"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, планировщик, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер триггеров; nil — Kafka выключена
	Scheduler       *scheduler.Scheduler  // фоновые проходы; nil — выключены
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// sheetOptions — опции клиента Sheets API из конфигурации.
func sheetOptions(cfg config.Sheets) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return opts
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Level)
	if err != nil {
		return nil, func() {}, err
	}

	// Стек очистки: выполняется в обратном порядке.
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}
	fail := func(err error) (*App, Cleanup, error) {
		cleanup()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	reg, err := registry.Load(cfg.Registry.File)
	if err != nil {
		return fail(err)
	}
	logg.Infof(ctx, "registry loaded file=%s restaurants=%d", cfg.Registry.File, len(reg.IDs()))

	store, closeStore, err := openStore(ctx, cfg, logg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeStore)

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	if cfg.Tracing.Enabled {
		shutdownTrace, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			closers = append(closers, func() {
				if terr := shutdownTrace(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
		}
	}

	mirror, err := sheets.New(ctx, reg, sheetOptions(cfg.Sheets)...)
	if err != nil {
		return fail(err)
	}

	// Публикация событий: Kafka или только лог.
	var publisher ports.EventPublisher = events.NewLogPublisher(logg)
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(&kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		}, logg)
		publisher = producer
		closers = append(closers, func() {
			if err := producer.Close(); err != nil {
				logg.Warnf(ctx, "kafka producer close error: %v", err)
			}
		})
	}

	// Сборка ядра.
	clk := clock.System{}
	retry := usecase.RetryPolicy{
		Timeout:    cfg.Sheets.CallTimeout,
		MaxRetries: cfg.Sheets.MaxRetries,
		Initial:    cfg.Sheets.RetryInitial,
		Max:        cfg.Sheets.RetryMax,
	}
	sheetCache := cachemem.NewSheetCache(cfg.Cache.Capacity, cfg.Cache.TTL, clk)
	core := usecase.NewCoreService(usecase.Deps{
		Mirror:    mirror,
		Store:     store,
		Registry:  reg,
		Publisher: publisher,
		Validator: validate.NewRecordValidator(),
		Clock:     clk,
		Log:       logg,
		Locks:     usecase.NewRestaurantLocks(cfg.Sync.LockWait),
		Outbox:    usecase.NewOutbox(),
		Reader:    usecase.NewSheetReader(mirror, sheetCache, logg, retry),
	}, usecase.SyncOptions{
		PassTimeout:      cfg.Sync.PassTimeout,
		BatchConcurrency: cfg.Sync.BatchConcurrency,
	})

	// Фоновые проходы.
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(scheduler.Config{
			SyncSpec:    cfg.Scheduler.SyncSpec,
			ReleaseSpec: cfg.Scheduler.ReleaseSpec,
			CoarseSpec:  cfg.Scheduler.CoarseSpec,
			JobTimeout:  cfg.Scheduler.JobTimeout,
		}, core, logg)
		if err != nil {
			return fail(err)
		}
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(core, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Scheduler:       sched,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Консьюмер триггеров синхронизации.
	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, core, logg)
		app.KafkaConsumer = consumer
		closers = append(closers, func() {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		})
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер, планировщик и консьюмера; ждёт отмены контекста
// или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Запуск консьюмера.
	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск планировщика.
	if a.Scheduler != nil {
		a.Logger.Infof(ctx, "scheduler starting")
		a.Scheduler.Start()
	}

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	// Корректная остановка HTTP-сервера.
	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Планировщик дожидается идущих проходов.
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "scheduler stop: %v", err)
		}
	}

	// Остановка Kafka-консьюмера
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
