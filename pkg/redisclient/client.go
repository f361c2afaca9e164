// Package redisclient builds the Redis client used for cross-replica event locks
package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options mirrors the Redis section of the service configuration
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client and pings it with a short timeout.
// Unlike a cache, the lock cannot degrade silently, so a failed ping is an error.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
