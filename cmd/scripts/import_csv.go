// Command import_csv loads an attendee list from a CSV file into an event of
// the MongoDB store. It reads the same config.yaml and environment as the API
// and takes the shared Redis event lock, so Redis must be enabled.
//
//	go run ./cmd/scripts <eventId> <attendees.csv>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/locker"
	mongorepo "github.com/ArowuTest/luckydraw-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/ArowuTest/luckydraw-backend/pkg/mongodb"
	"github.com/ArowuTest/luckydraw-backend/pkg/redisclient"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

var errNoSharedLock = errors.New("REDIS_ENABLED must be true: the import has to share the API's event lock")

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}
	if len(os.Args) < 3 {
		slog.Error("Usage: import_csv <eventId> <attendees.csv>")
		os.Exit(2)
	}
	eventID, csvFilePath := os.Args[1], os.Args[2]

	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := importAttendees(ctx, cfg, eventID, csvFilePath); err != nil {
		slog.Error("Failed to import attendees", "eventId", eventID, "file", csvFilePath, "error", err)
		os.Exit(1)
	}
}

func importAttendees(ctx context.Context, cfg *config.Config, eventID, csvFilePath string) error {
	if cfg.Store != config.StoreMongoDB {
		return fmt.Errorf("store %q is not supported, only %q", cfg.Store, config.StoreMongoDB)
	}
	if !cfg.Redis.Enabled {
		return errNoSharedLock
	}

	file, err := os.Open(csvFilePath)
	if err != nil {
		return err
	}
	defer file.Close()

	inputs, err := utils.ParseAttendeesCSV(file)
	if err != nil {
		return err
	}

	rdb, err := redisclient.NewClient(ctx, redisclient.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect to Redis: %w", err)
	}
	defer rdb.Close()

	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	store := mongorepo.NewStore(client.Database(cfg.MongoDB.Database))

	lk := locker.NewRedisLocker(rdb, "", cfg.Redis.LockTTL)
	svc := services.NewEventService(store.Events, store.Prizes, lk, cfg.Draw.LockTimeout)
	result, err := svc.ImportAttendees(ctx, eventID, inputs)
	if err != nil {
		return err
	}
	slog.Info("Attendees imported", "eventId", eventID, "added", result.Added, "updated", result.Updated, "total", result.Total)
	return nil
}
