// Package audit persists notable domain events into an audit trail.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domainevents "agrolink_backend/internal/events"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
)

// Recorder subscribes to domain events and writes them to the audit_log
// table.
type Recorder struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewRecorder(pool *pgxpool.Pool, log *logger.Logger) *Recorder {
	return &Recorder{pool: pool, log: log}
}

// Register subscribes the recorder to every audited event type.
func (r *Recorder) Register(bus events.Bus) {
	handler := events.HandlerFunc(r.record)
	bus.Subscribe(domainevents.UserLoggedIn{}.EventName(), handler)
	bus.Subscribe(domainevents.BuyerSearchPerformed{}.EventName(), handler)
	bus.Subscribe(domainevents.CallLogged{}.EventName(), handler)
}

func (r *Recorder) record(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_log (event_name, user_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4)`,
		event.EventName(), actorOf(event), payload, event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit row: %w", err)
	}
	return nil
}

// actorOf extracts the acting user from an event, when it has one.
func actorOf(event events.Event) *uuid.UUID {
	switch e := event.(type) {
	case domainevents.UserLoggedIn:
		return &e.UserID
	case domainevents.BuyerSearchPerformed:
		return &e.UserID
	case domainevents.CallLogged:
		return &e.CallerID
	default:
		return nil
	}
}
