package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink_backend/internal/profile/repository"
	"agrolink_backend/internal/profile/transport"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/logger"
)

type Service struct {
	store repository.Store
	log   *logger.Logger
}

func New(store repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*transport.ProfileResponse, error) {
	p, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// Update applies a profile change. A request with a name is a full upsert; a
// request with only crops replaces the crop list on an existing profile.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, phone string, req transport.UpdateProfileRequest) (*transport.ProfileResponse, error) {
	name := strings.TrimSpace(req.Name)

	if name == "" {
		if len(req.Crops) == 0 {
			return nil, apperr.Validation("name or crops is required")
		}
		p, err := s.store.UpdateCrops(ctx, userID, normalizeCrops(req.Crops))
		if err != nil {
			return nil, err
		}
		return toResponse(p), nil
	}

	p, err := s.store.Upsert(ctx, repository.Profile{
		UserID:   userID,
		Phone:    phone,
		Name:     name,
		Village:  req.Village,
		Taluk:    req.Taluk,
		District: req.District,
		Pincode:  req.Pincode,
		Lat:      req.Lat,
		Lon:      req.Lon,
		Crops:    normalizeCrops(req.Crops),
	})
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// normalizeCrops trims entries and drops empties and duplicates, preserving
// order.
func normalizeCrops(crops []string) []string {
	out := make([]string, 0, len(crops))
	seen := make(map[string]bool, len(crops))
	for _, c := range crops {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func toResponse(p *repository.Profile) *transport.ProfileResponse {
	resp := &transport.ProfileResponse{
		ID:       p.UserID,
		Phone:    p.Phone,
		Name:     p.Name,
		Village:  p.Village,
		Taluk:    p.Taluk,
		District: p.District,
		Pincode:  p.Pincode,
		Lat:      p.Lat,
		Lon:      p.Lon,
		Crops:    p.Crops,
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
