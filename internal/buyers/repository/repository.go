package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agrolink_backend/platform/apperr"
)

// directoryFetchLimit bounds how many candidate rows a single search may pull
// from the directory before scoring. Ranking happens in memory, so the fetch
// has to stay bounded regardless of how popular a crop is.
const directoryFetchLimit = 500

// Buyer is a directory record. Optional columns stay nullable here so the
// scoring layer can tell "absent" apart from zero values.
type Buyer struct {
	ID           uuid.UUID
	Name         string
	Village      *string
	Taluk        *string
	District     *string
	Pincode      *string
	Latitude     *float64
	Longitude    *float64
	ProfileImage *string
	IsVerified   bool
	UserPlan     string
	CropNames    []string
	CapacityKg   *float64
	UpdatedAt    *time.Time
}

// Directory is the read surface the search service depends on.
type Directory interface {
	FindByCropType(ctx context.Context, cropType string) ([]Buyer, error)
	ListRecent(ctx context.Context, limit int) ([]Buyer, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Directory = (*Repository)(nil)

const buyerColumns = `
	id, name, village, taluk, district, pincode,
	latitude, longitude, profile_image, is_verified,
	userplan, crop_names, capacity_kg, updated_at`

// FindByCropType returns every buyer whose crop_names contains cropType,
// capped at directoryFetchLimit rows.
func (r *Repository) FindByCropType(ctx context.Context, cropType string) ([]Buyer, error) {
	query := `
		SELECT` + buyerColumns + `
		FROM buyers
		WHERE crop_names @> ARRAY[$1]
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, cropType, directoryFetchLimit)
	if err != nil {
		return nil, apperr.Dependency("failed to search buyers", err)
	}
	defer rows.Close()

	return scanBuyers(rows)
}

// ListRecent returns the most recently updated buyers.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Buyer, error) {
	query := `
		SELECT` + buyerColumns + `
		FROM buyers
		ORDER BY updated_at DESC NULLS LAST
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperr.Dependency("failed to list buyers", err)
	}
	defer rows.Close()

	return scanBuyers(rows)
}

func scanBuyers(rows pgx.Rows) ([]Buyer, error) {
	buyers := make([]Buyer, 0)
	for rows.Next() {
		var b Buyer
		err := rows.Scan(
			&b.ID, &b.Name, &b.Village, &b.Taluk, &b.District, &b.Pincode,
			&b.Latitude, &b.Longitude, &b.ProfileImage, &b.IsVerified,
			&b.UserPlan, &b.CropNames, &b.CapacityKg, &b.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.Dependency("failed to read buyer row", err)
		}
		if b.CropNames == nil {
			b.CropNames = []string{}
		}
		buyers = append(buyers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("failed to read buyer rows", err)
	}
	return buyers, nil
}
