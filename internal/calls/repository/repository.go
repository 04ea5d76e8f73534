package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agrolink_backend/platform/apperr"
)

// callHistoryLimit bounds how much history one request may return.
const callHistoryLimit = 100

// Call is one logged phone call between a farmer and a buyer.
type Call struct {
	ID              uuid.UUID
	CallerID        uuid.UUID
	CallerPhone     string
	CalleePhone     string
	Direction       string
	Status          string
	DurationSeconds int
	Notes           string
	BuyerID         *uuid.UUID
	CreatedAt       time.Time
}

// Store is the persistence surface the calls service depends on.
type Store interface {
	Create(ctx context.Context, c Call) (*Call, error)
	ListForUser(ctx context.Context, userID uuid.UUID, phone string) ([]Call, error)
	FindByID(ctx context.Context, callerID, id uuid.UUID) (*Call, error)
	Update(ctx context.Context, c Call) (*Call, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const callColumns = `
	id, caller_id, caller_phone, callee_phone, direction, status,
	duration_seconds, COALESCE(notes, ''), buyer_id, created_at`

func (r *Repository) Create(ctx context.Context, c Call) (*Call, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO calls (caller_id, caller_phone, callee_phone, direction, status, buyer_id)
		VALUES ($1, $2, $3, $4, 'initiated', $5)
		RETURNING`+callColumns,
		c.CallerID, c.CallerPhone, c.CalleePhone, c.Direction, c.BuyerID,
	)
	return scanCall(row)
}

// ListForUser returns calls where the user is either the caller or the
// callee, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, phone string) ([]Call, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+callColumns+`
		FROM calls
		WHERE caller_id = $1 OR callee_phone = $2
		ORDER BY created_at DESC
		LIMIT $3`,
		userID, phone, callHistoryLimit,
	)
	if err != nil {
		return nil, apperr.Dependency("failed to list calls", err)
	}
	defer rows.Close()

	calls := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("failed to read call rows", err)
	}
	return calls, nil
}

func (r *Repository) FindByID(ctx context.Context, callerID, id uuid.UUID) (*Call, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+callColumns+`
		FROM calls
		WHERE id = $1 AND caller_id = $2`,
		id, callerID,
	)
	return scanCall(row)
}

func (r *Repository) Update(ctx context.Context, c Call) (*Call, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE calls
		SET status = $3, duration_seconds = $4, notes = $5
		WHERE id = $1 AND caller_id = $2
		RETURNING`+callColumns,
		c.ID, c.CallerID, c.Status, c.DurationSeconds, c.Notes,
	)
	return scanCall(row)
}

func scanCall(row pgx.Row) (*Call, error) {
	var c Call
	err := row.Scan(
		&c.ID, &c.CallerID, &c.CallerPhone, &c.CalleePhone, &c.Direction, &c.Status,
		&c.DurationSeconds, &c.Notes, &c.BuyerID, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("call not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to read call", err)
	}
	return &c, nil
}
