package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	authrepo "agrolink_backend/internal/auth/repository"
	"agrolink_backend/internal/scheduler"
	"agrolink_backend/platform/config"
	"agrolink_backend/platform/db"
	"agrolink_backend/platform/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("production").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL is required for the scheduler worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	worker, err := scheduler.NewWorker(cfg, authrepo.New(pool), log)
	if err != nil {
		log.Error("failed to create worker", "error", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down worker")
		worker.Shutdown()
	}()

	log.Info("scheduler worker started", "queue", cfg.GetAsynqQueueName())
	if err := worker.Run(); err != nil {
		log.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
