package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink_backend/internal/buyers/repository"
	"agrolink_backend/internal/buyers/transport"
	domainevents "agrolink_backend/internal/events"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
)

const recentListLimit = 50

type Service struct {
	directory repository.Directory
	bus       events.Bus
	log       *logger.Logger
}

func New(directory repository.Directory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{directory: directory, bus: bus, log: log}
}

// Search fetches the candidates for a crop, filters by declared capacity when
// the searcher named a quantity, and returns them ranked and trimmed to the
// requested limit.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, req transport.SearchRequest) (*transport.SearchResponse, error) {
	cropType := strings.TrimSpace(req.CropType)
	if cropType == "" {
		return nil, apperr.Validation("cropType is required")
	}

	limit := clampLimit(int(req.Limit))

	candidates, err := s.directory.FindByCropType(ctx, cropType)
	if err != nil {
		return nil, err
	}

	candidates = filterByCapacity(candidates, req.Quantity)

	ranked := rank(candidates, req.Location, limit)

	resp := &transport.SearchResponse{Buyers: make([]transport.BuyerResponse, 0, len(ranked))}
	for _, r := range ranked {
		resp.Buyers = append(resp.Buyers, toResponse(r))
	}

	s.log.SearchEvent(cropType, len(candidates), len(resp.Buyers))
	s.bus.Publish(ctx, domainevents.NewBuyerSearchPerformed(userID, cropType, len(candidates), len(resp.Buyers)))

	return resp, nil
}

// List returns the most recently updated buyers for the browse screen.
func (s *Service) List(ctx context.Context) (*transport.ListResponse, error) {
	buyers, err := s.directory.ListRecent(ctx, recentListLimit)
	if err != nil {
		return nil, err
	}

	resp := &transport.ListResponse{Buyers: make([]transport.BuyerResponse, 0, len(buyers))}
	for _, b := range buyers {
		resp.Buyers = append(resp.Buyers, toResponse(rankedBuyer{buyer: b, score: scoreTuple{distanceKm: unknownDistanceKm}}))
	}
	return resp, nil
}

// filterByCapacity drops buyers whose declared capacity is below the wanted
// quantity. Buyers without a declared capacity are never excluded, and an
// unparseable quantity disables the filter entirely.
func filterByCapacity(candidates []repository.Buyer, quantity string) []repository.Buyer {
	wanted, err := strconv.ParseFloat(strings.TrimSpace(quantity), 64)
	if err != nil || wanted <= 0 {
		return candidates
	}

	kept := make([]repository.Buyer, 0, len(candidates))
	for _, b := range candidates {
		if b.CapacityKg != nil && *b.CapacityKg < wanted {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

func toResponse(r rankedBuyer) transport.BuyerResponse {
	b := r.buyer
	resp := transport.BuyerResponse{
		ID:           b.ID,
		Name:         b.Name,
		Village:      b.Village,
		Taluk:        b.Taluk,
		District:     b.District,
		Pincode:      b.Pincode,
		Latitude:     b.Latitude,
		Longitude:    b.Longitude,
		ProfileImage: b.ProfileImage,
		IsVerified:   b.IsVerified,
		UserPlan:     b.UserPlan,
		CropNames:    b.CropNames,
		CapacityKg:   b.CapacityKg,
	}
	if b.UpdatedAt != nil {
		resp.UpdatedAt = b.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if r.score.distanceKm < unknownDistanceKm {
		d := r.score.distanceKm
		resp.DistanceKm = &d
	}
	return resp
}
