// Command buyer-geocode backfills missing coordinates on buyer records by
// geocoding their locality fields. Run it after bulk-importing buyers.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"agrolink_backend/internal/maps"
	"agrolink_backend/platform/config"
	"agrolink_backend/platform/db"
	"agrolink_backend/platform/logger"
)

type pendingBuyer struct {
	ID       uuid.UUID
	Taluk    string
	District string
	Pincode  string
}

func main() {
	_ = godotenv.Load()

	var (
		workers = flag.Int("workers", 4, "concurrent geocoding requests")
		limit   = flag.Int("limit", 200, "maximum buyers to process in one run")
		baseURL = flag.String("geocoder-url", "", "geocoder base URL (defaults to Nominatim)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("production").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	pending, err := loadPending(ctx, pool, *limit)
	if err != nil {
		log.Error("failed to load buyers", "error", err)
		os.Exit(1)
	}
	if len(pending) == 0 {
		log.Info("no buyers need geocoding")
		return
	}
	log.Info("geocoding buyers", "count", len(pending), "workers", *workers)

	geocoder := maps.NewGeocoder(*baseURL, log)

	var resolved, missed int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)

	type result struct {
		id     uuid.UUID
		coords *maps.Coordinates
	}
	results := make(chan result, len(pending))
	for _, b := range pending {
		b := b
		g.Go(func() error {
			coords, err := geocoder.Geocode(gctx, b.Taluk, b.District, b.Pincode)
			if err != nil {
				log.Warn("geocoding failed", "buyer_id", b.ID, "error", err)
				return nil
			}
			results <- result{b.ID, coords}
			// Nominatim asks for at most one request per second per client.
			time.Sleep(time.Second)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("geocoding aborted", "error", err)
		os.Exit(1)
	}
	close(results)

	for r := range results {
		if r.coords == nil {
			missed++
			continue
		}
		if err := saveCoordinates(ctx, pool, r.id, r.coords); err != nil {
			log.Warn("failed to save coordinates", "buyer_id", r.id, "error", err)
			continue
		}
		resolved++
	}

	log.Info("geocoding finished", "resolved", resolved, "not_found", missed)
}

func loadPending(ctx context.Context, pool *pgxpool.Pool, limit int) ([]pendingBuyer, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, COALESCE(taluk, ''), COALESCE(district, ''), COALESCE(pincode, '')
		FROM buyers
		WHERE latitude IS NULL
		  AND (taluk IS NOT NULL OR district IS NOT NULL OR pincode IS NOT NULL)
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]pendingBuyer, 0)
	for rows.Next() {
		var b pendingBuyer
		if err := rows.Scan(&b.ID, &b.Taluk, &b.District, &b.Pincode); err != nil {
			return nil, err
		}
		pending = append(pending, b)
	}
	return pending, rows.Err()
}

func saveCoordinates(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, coords *maps.Coordinates) error {
	_, err := pool.Exec(ctx, `
		UPDATE buyers SET latitude = $2, longitude = $3, updated_at = now()
		WHERE id = $1`,
		id, coords.Lat, coords.Lon,
	)
	return err
}
