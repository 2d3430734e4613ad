package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"foresttrack/internal/config"
)

var ErrMissingAddr = errors.New("redis addr is required")

// NewRedisClient connects the client backing the redis key-value store.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddr
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().
		Str("store", config.StoreRedis).
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("store connected")
	return client, nil
}
