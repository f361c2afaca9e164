package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/locker"
	"github.com/ArowuTest/luckydraw-backend/internal/notifier"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/luckydraw-backend/internal/repositories/mongodb"
	pgrepo "github.com/ArowuTest/luckydraw-backend/internal/repositories/postgres"
	"github.com/ArowuTest/luckydraw-backend/pkg/mongodb"
	"github.com/ArowuTest/luckydraw-backend/pkg/postgres"
	"github.com/ArowuTest/luckydraw-backend/pkg/rabbitmq"
	"github.com/ArowuTest/luckydraw-backend/pkg/redisclient"
	"golang.org/x/exp/slog"
)

// openStore connects the configured storage backend and returns its repositories
func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			return repositories.Store{}, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			slog.Warn("Failed to ensure MongoDB indexes", "error", err)
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}
		return mongorepo.NewStore(db), closeFn, nil

	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return repositories.Store{}, nil, fmt.Errorf("connect to Postgres: %w", err)
		}
		if err := pgrepo.Migrate(db); err != nil {
			_ = postgres.Close(db)
			return repositories.Store{}, nil, fmt.Errorf("migrate Postgres schema: %w", err)
		}
		closeFn := func() {
			if err := postgres.Close(db); err != nil {
				slog.Error("Error closing Postgres connection", "error", err)
			}
		}
		return pgrepo.NewStore(db), closeFn, nil

	case config.StoreMemory:
		slog.Warn("Using the in-memory store, data is lost on restart")
		return memory.NewStore(memory.NewDB()), func() {}, nil

	default:
		return repositories.Store{}, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// newLocker returns the Redis lock when several replicas share the store,
// and an in-process lock otherwise
func newLocker(ctx context.Context, cfg *config.Config) (locker.Locker, func(), error) {
	if !cfg.Redis.Enabled {
		return locker.NewKeyedMutex(), func() {}, nil
	}
	client, err := redisclient.NewClient(ctx, redisclient.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to Redis: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing Redis client", "error", err)
		}
	}
	return locker.NewRedisLocker(client, "", cfg.Redis.LockTTL), closeFn, nil
}

// newBrokerPublisher returns nil when RabbitMQ is disabled; NewMulti skips it
func newBrokerPublisher(cfg *config.Config) (notifier.Notifier, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return nil, func() {}, nil
	}
	client, err := rabbitmq.NewClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing RabbitMQ client", "error", err)
		}
	}
	return notifier.NewAMQPPublisher(client, "luckydraw-backend"), closeFn, nil
}
