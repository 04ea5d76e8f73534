package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink_backend/internal/listings/repository"
	"agrolink_backend/internal/listings/transport"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/logger"
)

var validStatuses = map[string]bool{
	"active":  true,
	"sold":    true,
	"expired": true,
}

// ImageStore uploads listing images and resolves their download URLs.
// Implemented by the storage service.
type ImageStore interface {
	UploadListingImage(ctx context.Context, listingID uuid.UUID, contentType string, size int64, r io.Reader) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
}

type Service struct {
	store  repository.Store
	images ImageStore
	log    *logger.Logger
}

// New builds the listings service. images may be nil when object storage is
// not configured; uploads then fail with a dependency error.
func New(store repository.Store, images ImageStore, log *logger.Logger) *Service {
	return &Service{store: store, images: images, log: log}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateListingRequest) (*transport.ListingResponse, error) {
	cropName := strings.TrimSpace(req.CropName)
	if cropName == "" {
		return nil, apperr.Validation("cropName is required")
	}
	if req.QuantityKg <= 0 {
		return nil, apperr.Validation("quantityKg must be positive")
	}
	if req.PricePerKg < 0 {
		return nil, apperr.Validation("pricePerKg must not be negative")
	}

	l, err := s.store.Create(ctx, repository.Listing{
		UserID:      userID,
		CropName:    cropName,
		QuantityKg:  req.QuantityKg,
		PricePerKg:  req.PricePerKg,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, l), nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) (*transport.ListingsResponse, error) {
	listings, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &transport.ListingsResponse{Listings: make([]transport.ListingResponse, 0, len(listings))}
	for i := range listings {
		resp.Listings = append(resp.Listings, *s.toResponse(ctx, &listings[i]))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req transport.UpdateListingRequest) (*transport.ListingResponse, error) {
	l, err := s.store.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.QuantityKg != nil {
		if *req.QuantityKg <= 0 {
			return nil, apperr.Validation("quantityKg must be positive")
		}
		l.QuantityKg = *req.QuantityKg
	}
	if req.PricePerKg != nil {
		if *req.PricePerKg < 0 {
			return nil, apperr.Validation("pricePerKg must not be negative")
		}
		l.PricePerKg = *req.PricePerKg
	}
	if req.Description != nil {
		l.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if !validStatuses[status] {
			return nil, apperr.Validation("status must be active, sold, or expired")
		}
		l.Status = status
	}

	updated, err := s.store.Update(ctx, *l)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, updated), nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.Delete(ctx, userID, id)
}

// AttachImage stores an uploaded image and links it to the listing.
func (s *Service) AttachImage(ctx context.Context, userID, id uuid.UUID, contentType string, size int64, r io.Reader) (*transport.UploadImageResponse, error) {
	if s.images == nil {
		return nil, apperr.New(apperr.KindDependency, "image storage is not configured")
	}

	// Ownership check before touching object storage.
	if _, err := s.store.FindByID(ctx, userID, id); err != nil {
		return nil, err
	}

	key, err := s.images.UploadListingImage(ctx, id, contentType, size, r)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendImageKey(ctx, userID, id, key); err != nil {
		return nil, err
	}

	url, err := s.images.PresignedURL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &transport.UploadImageResponse{ImageURL: url}, nil
}

func (s *Service) toResponse(ctx context.Context, l *repository.Listing) *transport.ListingResponse {
	urls := make([]string, 0, len(l.ImageKeys))
	if s.images != nil {
		for _, key := range l.ImageKeys {
			url, err := s.images.PresignedURL(ctx, key)
			if err != nil {
				s.log.Warn("failed to presign listing image", "key", key, "error", err)
				continue
			}
			urls = append(urls, url)
		}
	}

	return &transport.ListingResponse{
		ID:          l.ID,
		CropName:    l.CropName,
		QuantityKg:  l.QuantityKg,
		PricePerKg:  l.PricePerKg,
		Description: l.Description,
		Status:      l.Status,
		ImageURLs:   urls,
		CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
