package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/memory"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/postgres"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/sqlite"
	"github.com/stockceramique/stockceramique-api/pkg/config"
)

// storage backend elegido por STORAGE_DRIVER.
type storage struct {
	txRunner inventory.TxRunner
	repos    inventory.Repositories
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.Storage.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		return &storage{
			txRunner: postgres.NewTxRunner(pool),
			repos:    postgres.NewRepositories(pool),
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := sqlite.Migrate(db); err != nil {
				_ = sqlDB.Close()
				return nil, fmt.Errorf("migraciones sqlite: %w", err)
			}
		}
		store := sqlite.NewStore(db)
		return &storage{
			txRunner: store,
			repos:    store.Repositories(),
			close:    func() { _ = sqlDB.Close() },
		}, nil

	case config.DriverMemory:
		store := memory.NewStore()
		return &storage{txRunner: store, repos: store.Repositories(), close: func() {}}, nil
	}
	return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Storage.Driver)
}
