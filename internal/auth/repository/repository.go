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

// User is an account row keyed by phone number.
type User struct {
	ID          uuid.UUID
	Phone       string
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// OTP is a pending one-time password. Only the bcrypt hash of the code is
// stored.
type OTP struct {
	ID        uuid.UUID
	Phone     string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Store is the persistence surface the auth service depends on.
type Store interface {
	CreateOTP(ctx context.Context, phone, codeHash string, expiresAt time.Time) (uuid.UUID, error)
	LatestActiveOTP(ctx context.Context, phone string, now time.Time) (*OTP, error)
	ConsumeOTP(ctx context.Context, id uuid.UUID) error
	DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error)
	UpsertUserByPhone(ctx context.Context, phone string, now time.Time) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func (r *Repository) CreateOTP(ctx context.Context, phone, codeHash string, expiresAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO otps (phone, code_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		phone, codeHash, expiresAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, apperr.Dependency("failed to store OTP", err)
	}
	return id, nil
}

// LatestActiveOTP returns the newest unconsumed, unexpired OTP for a phone,
// or nil when there is none.
func (r *Repository) LatestActiveOTP(ctx context.Context, phone string, now time.Time) (*OTP, error) {
	var o OTP
	err := r.pool.QueryRow(ctx, `
		SELECT id, phone, code_hash, expires_at, created_at
		FROM otps
		WHERE phone = $1 AND consumed_at IS NULL AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1`,
		phone, now,
	).Scan(&o.ID, &o.Phone, &o.CodeHash, &o.ExpiresAt, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Dependency("failed to look up OTP", err)
	}
	return &o, nil
}

func (r *Repository) ConsumeOTP(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE otps SET consumed_at = now()
		WHERE id = $1 AND consumed_at IS NULL`,
		id,
	)
	if err != nil {
		return apperr.Dependency("failed to consume OTP", err)
	}
	return nil
}

// DeleteExpiredOTPs removes OTP rows whose expiry has passed. Called from
// the background purge task.
func (r *Repository) DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM otps WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, apperr.Dependency("failed to purge expired OTPs", err)
	}
	return tag.RowsAffected(), nil
}

// UpsertUserByPhone finds or creates the account for a phone number and
// stamps the login time.
func (r *Repository) UpsertUserByPhone(ctx context.Context, phone string, now time.Time) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO auth_users (phone, last_login_at)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO UPDATE SET last_login_at = EXCLUDED.last_login_at
		RETURNING id, phone, created_at, last_login_at`,
		phone, now,
	).Scan(&u.ID, &u.Phone, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, apperr.Dependency("failed to upsert user", err)
	}
	return &u, nil
}

func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		SELECT id, phone, created_at, last_login_at
		FROM auth_users
		WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Phone, &u.CreatedAt, &u.LastLoginAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to load user", err)
	}
	return &u, nil
}
