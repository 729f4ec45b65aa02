package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/mesasync/config"
	"github.com/Gunvolt24/mesasync/internal/ports"
	"github.com/Gunvolt24/mesasync/internal/repo/gormstore"
	"github.com/Gunvolt24/mesasync/internal/repo/postgres"
)

// openStore — локальное хранилище по cfg.Store.Driver.
// postgres — pgxpool + goose-миграции; sqlite/mysql — gorm + AutoMigrate.
func openStore(ctx context.Context, cfg *config.Config, log ports.Logger) (ports.LocalStore, func(), error) {
	switch driver := strings.ToLower(strings.TrimSpace(cfg.Store.Driver)); driver {
	case "", "postgres", "pgx":
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		if cfg.Store.Migrate {
			if err := postgres.Migrate(ctx, pool, cfg.Postgres.MigrationsDir); err != nil {
				pool.Close()
				return nil, nil, err
			}
			log.Infof(ctx, "postgres migrations applied dir=%s", cfg.Postgres.MigrationsDir)
		}
		return postgres.NewStore(pool), pool.Close, nil

	case "sqlite", "mysql":
		db, err := gormstore.Open(driver, cfg.Store.DSN, cfg.Store.Debug)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		store := gormstore.NewStore(db)
		if cfg.Store.Migrate {
			if err := store.Migrate(ctx); err != nil {
				closeDB()
				return nil, nil, err
			}
		}
		log.Infof(ctx, "gorm store opened driver=%s", driver)
		return store, closeDB, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
