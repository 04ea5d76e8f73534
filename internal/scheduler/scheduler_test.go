package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"

	"agrolink_backend/platform/logger"
)

type schedulerConfigStub struct {
	redisURL string
}

func (s schedulerConfigStub) GetRedisURL() string       { return s.redisURL }
func (s schedulerConfigStub) GetRedisTLSInsecure() bool { return false }
func (s schedulerConfigStub) GetAsynqQueueName() string { return "default" }
func (s schedulerConfigStub) GetAsynqConcurrency() int  { return 1 }

func TestOTPPurgeTaskRoundTrip(t *testing.T) {
	before := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	task, err := NewOTPPurgeTask(before)
	if err != nil {
		t.Fatalf("NewOTPPurgeTask: %v", err)
	}
	if task.Type() != TaskOTPPurge {
		t.Fatalf("task type = %q, want %q", task.Type(), TaskOTPPurge)
	}

	payload, err := parseOTPPurgeTask(task)
	if err != nil {
		t.Fatalf("parseOTPPurgeTask: %v", err)
	}
	if !payload.Before.Equal(before) {
		t.Fatalf("before = %v, want %v", payload.Before, before)
	}
}

func TestClientSchedulesPurge(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := schedulerConfigStub{redisURL: "redis://" + mr.Addr()}

	client, err := NewClient(cfg, logger.New("test"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	runAt := time.Now().Add(5 * time.Minute)
	if err := client.ScheduleOTPPurge(context.Background(), runAt); err != nil {
		t.Fatalf("ScheduleOTPPurge: %v", err)
	}

	connOpt, err := RedisConnOpt(cfg)
	if err != nil {
		t.Fatalf("RedisConnOpt: %v", err)
	}
	inspector := asynq.NewInspector(connOpt)
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("default")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("scheduled %d tasks, want 1", len(tasks))
	}
	if tasks[0].Type != TaskOTPPurge {
		t.Fatalf("task type = %q, want %q", tasks[0].Type, TaskOTPPurge)
	}
	if tasks[0].NextProcessAt.Before(runAt) {
		t.Fatalf("task runs at %v, before the otp expiry %v", tasks[0].NextProcessAt, runAt)
	}
}

type countingPurger struct {
	calls  int
	before time.Time
}

func (c *countingPurger) DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	c.calls++
	c.before = before
	return 3, nil
}

func TestOTPPurgeHandler(t *testing.T) {
	purger := &countingPurger{}
	handler := otpPurgeHandler(purger, logger.New("test"))

	before := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task, err := NewOTPPurgeTask(before)
	if err != nil {
		t.Fatalf("NewOTPPurgeTask: %v", err)
	}

	if err := handler(context.Background(), task); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if purger.calls != 1 {
		t.Fatalf("purger called %d times, want 1", purger.calls)
	}
	if !purger.before.Equal(before) {
		t.Fatalf("purge boundary = %v, want %v", purger.before, before)
	}
}
