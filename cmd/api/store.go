package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"foresttrack/internal/cache"
	"foresttrack/internal/config"
	"foresttrack/internal/database"
	"foresttrack/internal/kv"
	"foresttrack/internal/service"
	"foresttrack/internal/storage"
)

// openStore connects the configured backend and returns it with a close
// function for shutdown.
func openStore(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (kv.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("redis close error")
			}
		}
		return kv.WithPrefix(kv.NewRedisStore(client), cfg.Store.Prefix), closeFn, nil

	case config.StorePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		store := kv.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return kv.WithPrefix(store, cfg.Store.Prefix), pool.Close, nil

	case config.StoreMySQL:
		db, err := database.NewMySQL(ctx, cfg.MySQL, logger)
		if err != nil {
			return nil, nil, err
		}
		store, err := kv.NewGormStore(db)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return kv.WithPrefix(store, cfg.Store.Prefix), closeFn, nil

	case config.StoreMemory:
		logger.Warn().Msg("memory store selected, state is lost on exit")
		return kv.NewMemoryStore(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func openPhotoStore(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (service.PhotoStore, error) {
	if cfg.Photos.Backend != config.PhotosMinio {
		return storage.InlineStore{}, nil
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}
	return objectStore, nil
}
