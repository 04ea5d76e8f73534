package scheduler

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"agrolink_backend/platform/config"
	"agrolink_backend/platform/logger"
)

// OTPPurger deletes expired OTP rows. Implemented by the auth repository.
type OTPPurger interface {
	DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error)
}

// Worker consumes scheduled tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, purger OTPPurger, log *logger.Logger) (*Worker, error) {
	connOpt, err := RedisConnOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(connOpt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOTPPurge, otpPurgeHandler(purger, log))

	return &Worker{server: server, mux: mux, log: log}, nil
}

func otpPurgeHandler(purger OTPPurger, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		payload, err := parseOTPPurgeTask(t)
		if err != nil {
			return err
		}

		deleted, err := purger.DeleteExpiredOTPs(ctx, payload.Before)
		if err != nil {
			return err
		}
		if deleted > 0 {
			log.Info("purged expired otps", "deleted", deleted)
		}
		return nil
	}
}

// Run blocks until the server is shut down.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
