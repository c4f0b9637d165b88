package storage

import (
	"context"
	"fmt"

	"car-scraper/config"
	"car-scraper/utils"
)

// Open returns the seen-set backend selected by cfg.SeenStore.
func Open(ctx context.Context, cfg *config.Config, logger *utils.Logger) (SeenStore, error) {
	switch cfg.SeenStore {
	case "", "json":
		logger.Info("[storage] Using JSON file %s", cfg.SeenFile)
		return NewJSONStore(cfg.SeenFile, logger), nil
	case "sqlite":
		logger.Info("[storage] Using SQLite database %s", cfg.SQLitePath)
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		logger.Info("[storage] Connecting to PostgreSQL at %s:%s", cfg.PostgresHost, cfg.PostgresPort)
		store, err := NewPostgresStore(ctx, cfg.DSN(), logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.SeenStore)
	}
}
