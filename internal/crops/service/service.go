package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink_backend/internal/crops/repository"
	"agrolink_backend/internal/crops/transport"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/logger"
)

const maxAvailabilityDays = 365

type Service struct {
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
}

func New(store repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

func (s *Service) Catalog(ctx context.Context) (*transport.CatalogResponse, error) {
	crops, err := s.store.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	resp := &transport.CatalogResponse{Crops: make([]transport.CatalogCropResponse, 0, len(crops))}
	for _, c := range crops {
		resp.Crops = append(resp.Crops, transport.CatalogCropResponse{Name: c.Name, Category: c.Category})
	}
	return resp, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) (*transport.UserCropsResponse, error) {
	crops, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &transport.UserCropsResponse{Crops: make([]transport.UserCropResponse, 0, len(crops))}
	for _, c := range crops {
		resp.Crops = append(resp.Crops, toResponse(c))
	}
	return resp, nil
}

func (s *Service) Add(ctx context.Context, userID uuid.UUID, cropName string) (*transport.UserCropResponse, error) {
	cropName = strings.TrimSpace(cropName)
	if cropName == "" {
		return nil, apperr.Validation("cropName is required")
	}

	c, err := s.store.Add(ctx, userID, cropName)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*c)
	return &resp, nil
}

func (s *Service) Remove(ctx context.Context, userID, cropID uuid.UUID) error {
	return s.store.Remove(ctx, userID, cropID)
}

// SetStatus switches a crop's selling status. "on" and "off" are direct
// states; a positive number of days keeps the crop on until that window
// passes.
func (s *Service) SetStatus(ctx context.Context, userID, cropID uuid.UUID, status string) (*transport.UserCropResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))

	var availableUntil *time.Time
	switch status {
	case "on", "off":
	default:
		days, err := strconv.Atoi(status)
		if err != nil || days <= 0 || days > maxAvailabilityDays {
			return nil, apperr.Validation("status must be on, off, or a number of days")
		}
		until := s.now().AddDate(0, 0, days)
		availableUntil = &until
		status = "on"
	}

	c, err := s.store.SetStatus(ctx, userID, cropID, status, availableUntil)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*c)
	return &resp, nil
}

func toResponse(c repository.UserCrop) transport.UserCropResponse {
	resp := transport.UserCropResponse{
		ID:       c.ID,
		CropName: c.CropName,
		Status:   c.Status,
	}
	if c.AvailableUntil != nil {
		resp.AvailableUntil = c.AvailableUntil.UTC().Format(time.RFC3339)
	}
	return resp
}
