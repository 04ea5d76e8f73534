// Package storage stores listing images in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/config"
	"agrolink_backend/platform/logger"
)

const presignedURLTTL = 24 * time.Hour

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Service uploads listing images and hands out presigned download URLs.
type Service struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
	log         *logger.Logger
}

func New(cfg config.StorageConfig, log *logger.Logger) (*Service, error) {
	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Service{
		client:      client,
		bucket:      cfg.GetMinioBucketListingImages(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
		log:         log,
	}, nil
}

// EnsureBucket creates the image bucket if it does not exist yet. Called once
// at startup.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.log.Info("created storage bucket", "bucket", s.bucket)
	return nil
}

// UploadListingImage validates and stores one image, returning its object
// key.
func (s *Service) UploadListingImage(ctx context.Context, listingID uuid.UUID, contentType string, size int64, r io.Reader) (string, error) {
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", apperr.Validation("unsupported image type")
	}
	if size <= 0 || size > s.maxFileSize {
		return "", apperr.Validation(fmt.Sprintf("image must be between 1 byte and %d bytes", s.maxFileSize))
	}

	key := path.Join("listings", listingID.String(), uuid.NewString()+ext)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", apperr.Dependency("failed to store image", err)
	}
	return key, nil
}

// PresignedURL returns a time-limited download URL for an object key.
func (s *Service) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, presignedURLTTL, url.Values{})
	if err != nil {
		return "", apperr.Dependency("failed to presign image url", err)
	}
	return u.String(), nil
}

// Delete removes an object. Missing objects are not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return apperr.Dependency("failed to delete image", err)
	}
	return nil
}
