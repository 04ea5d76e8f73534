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

// Listing is a crop listing row.
type Listing struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CropName    string
	QuantityKg  float64
	PricePerKg  float64
	Description string
	Status      string
	ImageKeys   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the persistence surface the listings service depends on.
type Store interface {
	Create(ctx context.Context, l Listing) (*Listing, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Listing, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, l Listing) (*Listing, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	AppendImageKey(ctx context.Context, userID, id uuid.UUID, key string) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const listingColumns = `
	id, user_id, crop_name, quantity_kg, price_per_kg,
	COALESCE(description, ''), status, image_keys, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, l Listing) (*Listing, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO crop_listings (user_id, crop_name, quantity_kg, price_per_kg, description, status)
		VALUES ($1, $2, $3, $4, $5, 'active')
		RETURNING`+listingColumns,
		l.UserID, l.CropName, l.QuantityKg, l.PricePerKg, l.Description,
	)
	return scanListing(row)
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+listingColumns+`
		FROM crop_listings
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, apperr.Dependency("failed to list listings", err)
	}
	defer rows.Close()

	listings := make([]Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("failed to read listing rows", err)
	}
	return listings, nil
}

func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*Listing, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+listingColumns+`
		FROM crop_listings
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanListing(row)
}

func (r *Repository) Update(ctx context.Context, l Listing) (*Listing, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE crop_listings
		SET quantity_kg = $3, price_per_kg = $4, description = $5, status = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING`+listingColumns,
		l.ID, l.UserID, l.QuantityKg, l.PricePerKg, l.Description, l.Status,
	)
	return scanListing(row)
}

func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM crop_listings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperr.Dependency("failed to delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("listing not found")
	}
	return nil
}

func (r *Repository) AppendImageKey(ctx context.Context, userID, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE crop_listings
		SET image_keys = array_append(image_keys, $3), updated_at = now()
		WHERE id = $1 AND user_id = $2`,
		id, userID, key,
	)
	if err != nil {
		return apperr.Dependency("failed to attach image", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("listing not found")
	}
	return nil
}

func scanListing(row pgx.Row) (*Listing, error) {
	var l Listing
	err := row.Scan(
		&l.ID, &l.UserID, &l.CropName, &l.QuantityKg, &l.PricePerKg,
		&l.Description, &l.Status, &l.ImageKeys, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("listing not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to read listing", err)
	}
	if l.ImageKeys == nil {
		l.ImageKeys = []string{}
	}
	return &l, nil
}
