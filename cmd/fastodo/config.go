package main

import (
	"context"
	"fmt"
	"os"

	"fastodo/internal/config"
	"fastodo/internal/repository"
	"fastodo/internal/repository/kv"
	"fastodo/internal/repository/sqlite"
	"fastodo/internal/repository/static"
)

// openMedium opens the persistence medium named by storage.backend.
func openMedium(ctx context.Context, cfg *config.Config) (repository.Medium, error) {
	perms := os.FileMode(cfg.Storage.DirPermissions)

	switch cfg.Storage.Backend {
	case config.BackendFile:
		store := kv.NewFileStore(cfg.GetStoragePath(), perms)
		return repository.NewLocalStorage(config.BackendFile, store, cfg.Storage.Key), nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.GetSQLitePath(), perms)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return repository.NewLocalStorage(config.BackendSQLite, store, cfg.Storage.Key), nil
	case config.BackendRedis:
		store, err := kv.NewRedisStore(cfg.Storage.RedisURL, kv.DefaultNamespace, cfg.Storage.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return repository.NewLocalStorage(config.BackendRedis, store, cfg.Storage.Key), nil
	case config.BackendStatic:
		return static.New(cfg.Storage.StaticSource, static.WithTimeout(cfg.Storage.Timeout)), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
