package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ArowuTest/luckydraw-backend/api/routes"
	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/notifier"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
	if lvl > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not configured")
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	lk, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	hub := notifier.NewHub()
	broker, closeBroker, err := newBrokerPublisher(cfg)
	if err != nil {
		return err
	}
	defer closeBroker()
	n := notifier.NewMulti(hub, notifier.NewRecorder(store.Notifications), broker)

	// Initialize Services
	authService := services.NewAuthService(store.Operators, cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	if cfg.Admin.Email != "" {
		if err := authService.SeedOperator(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}
	prizeService := services.NewPrizeService(store.Events, store.Prizes, lk, cfg.Draw.LockTimeout)
	deps := routes.HandlerDependencies{
		LuckyDrawService: services.NewLuckyDrawService(store.Events, store.Prizes, store.Draws, draw.NewEngine(), lk, n, services.LuckyDrawOptions{
			NotifyTimeout: cfg.Draw.NotifyTimeout,
			LockTimeout:   cfg.Draw.LockTimeout,
			MaxBatch:      cfg.Draw.MaxBatch,
		}),
		EventService:        services.NewEventService(store.Events, store.Prizes, lk, cfg.Draw.LockTimeout),
		PrizeService:        prizeService,
		DisplayService:      services.NewDisplayService(store.Events, prizeService, hub, n, cfg.Draw.NotifyTimeout),
		AuthService:         authService,
		NotificationService: services.NewNotificationService(store.Events, store.Notifications),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.SetupRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "port", cfg.Server.Port, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
