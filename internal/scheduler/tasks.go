// Package scheduler runs deferred background work over asynq and Redis.
// Its single job today is purging expired one-time passwords shortly after
// they expire.
package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskOTPPurge deletes OTP rows whose expiry has passed.
const TaskOTPPurge = "auth.otp.purge"

type otpPurgePayload struct {
	Before time.Time `json:"before"`
}

// NewOTPPurgeTask builds a purge task covering everything expiring up to
// the given time.
func NewOTPPurgeTask(before time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(otpPurgePayload{Before: before})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal otp purge payload: %w", err)
	}
	return asynq.NewTask(TaskOTPPurge, payload), nil
}

func parseOTPPurgeTask(t *asynq.Task) (otpPurgePayload, error) {
	var p otpPurgePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal otp purge payload: %w", err)
	}
	return p, nil
}
