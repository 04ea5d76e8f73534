package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"agrolink_backend/internal/audit"
	"agrolink_backend/internal/auth"
	authservice "agrolink_backend/internal/auth/service"
	"agrolink_backend/internal/buyers"
	"agrolink_backend/internal/calls"
	"agrolink_backend/internal/crops"
	apphttp "agrolink_backend/internal/http"
	"agrolink_backend/internal/http/router"
	"agrolink_backend/internal/listings"
	listingsservice "agrolink_backend/internal/listings/service"
	"agrolink_backend/internal/profile"
	"agrolink_backend/internal/scheduler"
	"agrolink_backend/internal/sms"
	"agrolink_backend/internal/storage"
	"agrolink_backend/platform/config"
	"agrolink_backend/platform/db"
	platformevents "agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
	"agrolink_backend/platform/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("production").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := withRetry(ctx, log, "database connect", func() (*pgxpool.Pool, error) {
		return db.NewPool(ctx, cfg)
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg, cfg.MigrationsDir); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	bus := platformevents.NewInMemoryBus(log)
	val := validator.New()

	audit.NewRecorder(pool, log).Register(bus)

	var sender sms.Sender
	if cfg.IsSMSEnabled() {
		sender = sms.NewClient(cfg, log)
	} else {
		log.Warn("sms gateway not configured, logging otps instead")
		sender = sms.NewLogSender(log)
	}

	var purgeScheduler authservice.PurgeScheduler = authservice.NoopPurgeScheduler{}
	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg, log)
		if err != nil {
			log.Error("failed to create scheduler client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		purgeScheduler = client
	} else {
		log.Warn("redis not configured, otp purge scheduling disabled")
	}

	var images listingsservice.ImageStore
	if cfg.IsMinIOEnabled() {
		store, err := storage.New(cfg, log)
		if err != nil {
			log.Error("failed to create storage client", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Error("failed to prepare storage bucket", "error", err)
			os.Exit(1)
		}
		images = store
	} else {
		log.Warn("object storage not configured, listing images disabled")
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			auth.NewModule(pool, sender, purgeScheduler, bus, log, cfg, val),
			profile.NewModule(pool, log),
			crops.NewModule(pool, log),
			buyers.NewModule(pool, bus, log),
			listings.NewModule(pool, images, log),
			calls.NewModule(pool, bus, log),
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", cfg.GetHTTPAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// withRetry retries a startup step with linear backoff so the service
// survives dependencies that come up slower than it does.
func withRetry[T any](ctx context.Context, log *logger.Logger, name string, fn func() (T, error)) (T, error) {
	const attempts = 5

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		log.Warn("startup step failed, retrying", "step", name, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return zero, lastErr
}
