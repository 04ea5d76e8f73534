package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"agrolink_backend/platform/config"
	"agrolink_backend/platform/logger"
)

// purgeDelay gives the expiry comparison a little slack so a task firing
// exactly on time still sees the rows as expired.
const purgeDelay = 10 * time.Second

// Client enqueues background tasks.
type Client struct {
	asynq *asynq.Client
	queue string
	log   *logger.Logger
}

// RedisConnOpt builds the asynq Redis connection options from config.
func RedisConnOpt(cfg config.SchedulerConfig) (asynq.RedisConnOpt, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	connOpt := asynq.RedisClientOpt{
		Addr:     opt.Addr,
		Username: opt.Username,
		Password: opt.Password,
		DB:       opt.DB,
	}
	if opt.TLSConfig != nil {
		connOpt.TLSConfig = opt.TLSConfig
		if cfg.GetRedisTLSInsecure() {
			connOpt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
	return connOpt, nil
}

func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	connOpt, err := RedisConnOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		asynq: asynq.NewClient(connOpt),
		queue: cfg.GetAsynqQueueName(),
		log:   log,
	}, nil
}

// ScheduleOTPPurge enqueues a purge task to run shortly after runAt.
func (c *Client) ScheduleOTPPurge(ctx context.Context, runAt time.Time) error {
	task, err := NewOTPPurgeTask(runAt)
	if err != nil {
		return err
	}

	info, err := c.asynq.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.ProcessAt(runAt.Add(purgeDelay)),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue otp purge: %w", err)
	}

	c.log.Debug("scheduled otp purge", "task_id", info.ID, "run_at", runAt.Add(purgeDelay))
	return nil
}

func (c *Client) Close() error {
	return c.asynq.Close()
}
