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

// CatalogCrop is a crop the platform knows about.
type CatalogCrop struct {
	Name     string
	Category string
}

// UserCrop is one crop a farmer has registered to sell.
type UserCrop struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CropName       string
	Status         string
	AvailableUntil *time.Time
	CreatedAt      time.Time
}

// Store is the persistence surface the crops service depends on.
type Store interface {
	ListCatalog(ctx context.Context) ([]CatalogCrop, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]UserCrop, error)
	Add(ctx context.Context, userID uuid.UUID, cropName string) (*UserCrop, error)
	Remove(ctx context.Context, userID, cropID uuid.UUID) error
	SetStatus(ctx context.Context, userID, cropID uuid.UUID, status string, availableUntil *time.Time) (*UserCrop, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func (r *Repository) ListCatalog(ctx context.Context) ([]CatalogCrop, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, COALESCE(category, '') FROM crop_catalog ORDER BY name`)
	if err != nil {
		return nil, apperr.Dependency("failed to list crop catalog", err)
	}
	defer rows.Close()

	crops := make([]CatalogCrop, 0)
	for rows.Next() {
		var c CatalogCrop
		if err := rows.Scan(&c.Name, &c.Category); err != nil {
			return nil, apperr.Dependency("failed to read catalog row", err)
		}
		crops = append(crops, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("failed to read catalog rows", err)
	}
	return crops, nil
}

const userCropColumns = `id, user_id, crop_name, status, available_until, created_at`

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]UserCrop, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userCropColumns+`
		FROM user_crops
		WHERE user_id = $1
		ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, apperr.Dependency("failed to list user crops", err)
	}
	defer rows.Close()

	crops := make([]UserCrop, 0)
	for rows.Next() {
		var c UserCrop
		if err := rows.Scan(&c.ID, &c.UserID, &c.CropName, &c.Status, &c.AvailableUntil, &c.CreatedAt); err != nil {
			return nil, apperr.Dependency("failed to read user crop row", err)
		}
		crops = append(crops, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("failed to read user crop rows", err)
	}
	return crops, nil
}

func (r *Repository) Add(ctx context.Context, userID uuid.UUID, cropName string) (*UserCrop, error) {
	var c UserCrop
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_crops (user_id, crop_name, status)
		VALUES ($1, $2, 'on')
		RETURNING `+userCropColumns,
		userID, cropName,
	).Scan(&c.ID, &c.UserID, &c.CropName, &c.Status, &c.AvailableUntil, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("crop already added")
		}
		return nil, apperr.Dependency("failed to add crop", err)
	}
	return &c, nil
}

func (r *Repository) Remove(ctx context.Context, userID, cropID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_crops WHERE id = $1 AND user_id = $2`, cropID, userID)
	if err != nil {
		return apperr.Dependency("failed to remove crop", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("crop not found")
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, userID, cropID uuid.UUID, status string, availableUntil *time.Time) (*UserCrop, error) {
	var c UserCrop
	err := r.pool.QueryRow(ctx, `
		UPDATE user_crops
		SET status = $3, available_until = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+userCropColumns,
		cropID, userID, status, availableUntil,
	).Scan(&c.ID, &c.UserID, &c.CropName, &c.Status, &c.AvailableUntil, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("crop not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to update crop status", err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
