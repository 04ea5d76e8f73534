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

// Profile is a farmer's profile row, keyed by the auth user id.
type Profile struct {
	UserID    uuid.UUID
	Phone     string
	Name      string
	Village   *string
	Taluk     *string
	District  *string
	Pincode   *string
	Lat       *float64
	Lon       *float64
	Crops     []string
	UpdatedAt time.Time
}

// Store is the persistence surface the profile service depends on.
type Store interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p Profile) (*Profile, error)
	UpdateCrops(ctx context.Context, userID uuid.UUID, crops []string) (*Profile, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const profileColumns = `
	user_id, phone, name, village, taluk, district, pincode,
	lat, lon, crops, updated_at`

func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+profileColumns+`
		FROM profiles
		WHERE user_id = $1`,
		userID,
	)
	return scanProfile(row)
}

func (r *Repository) Upsert(ctx context.Context, p Profile) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, phone, name, village, taluk, district, pincode, lat, lon, crops, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			village = EXCLUDED.village,
			taluk = EXCLUDED.taluk,
			district = EXCLUDED.district,
			pincode = EXCLUDED.pincode,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			crops = EXCLUDED.crops,
			updated_at = now()
		RETURNING`+profileColumns,
		p.UserID, p.Phone, p.Name, p.Village, p.Taluk, p.District, p.Pincode, p.Lat, p.Lon, p.Crops,
	)
	prof, err := scanProfile(row)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Dependency("failed to upsert profile", errors.New("upsert returned no row"))
		}
		return nil, err
	}
	return prof, nil
}

// UpdateCrops replaces the crop list on an existing profile.
func (r *Repository) UpdateCrops(ctx context.Context, userID uuid.UUID, crops []string) (*Profile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET crops = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING`+profileColumns,
		userID, crops,
	)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.UserID, &p.Phone, &p.Name, &p.Village, &p.Taluk, &p.District, &p.Pincode,
		&p.Lat, &p.Lon, &p.Crops, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("profile not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to read profile", err)
	}
	if p.Crops == nil {
		p.Crops = []string{}
	}
	return &p, nil
}
