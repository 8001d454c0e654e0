// Package redis provides the Redis-backed leaderboard cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/arena/internal/config"
)

// Client is the subset of go-redis the cache depends on. Both *goredis.Client
// and cluster clients satisfy it.
type Client interface {
	goredis.UniversalClient
}

// NewClient creates a Redis client from cfg and verifies it answers PING.
//
// Precondition: cfg.Addr must be non-empty.
// Postcondition: Returns a connected Client or a non-nil error; the client is
// closed on error.
func NewClient(ctx context.Context, cfg config.RedisConfig) (Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
