package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"agrolink_backend/internal/profile/repository"
	"agrolink_backend/internal/profile/transport"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/logger"
)

type fakeStore struct {
	profiles map[uuid.UUID]*repository.Profile
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[uuid.UUID]*repository.Profile)}
}

func (f *fakeStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*repository.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("profile not found")
}

func (f *fakeStore) Upsert(ctx context.Context, p repository.Profile) (*repository.Profile, error) {
	p.UpdatedAt = time.Now()
	f.profiles[p.UserID] = &p
	return &p, nil
}

func (f *fakeStore) UpdateCrops(ctx context.Context, userID uuid.UUID, crops []string) (*repository.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("profile not found")
	}
	p.Crops = crops
	p.UpdatedAt = time.Now()
	return p, nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return New(store, logger.New("test")), store
}

func TestGetMissingProfile(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUpdateFullUpsert(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()
	district := "Madurai"

	resp, err := svc.Update(context.Background(), userID, "+919876543210", transport.UpdateProfileRequest{
		Name:     "  Muthu  ",
		District: &district,
		Crops:    []string{"tomato", "Tomato", " onion ", ""},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Name != "Muthu" {
		t.Fatalf("name = %q, want trimmed %q", resp.Name, "Muthu")
	}
	if resp.Phone != "+919876543210" {
		t.Fatalf("phone = %q", resp.Phone)
	}
	if want := []string{"tomato", "onion"}; !reflect.DeepEqual(resp.Crops, want) {
		t.Fatalf("crops = %v, want %v", resp.Crops, want)
	}

	got, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get after upsert: %v", err)
	}
	if got.Name != "Muthu" {
		t.Fatalf("persisted name = %q", got.Name)
	}
}

func TestUpdateCropsOnly(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	if _, err := svc.Update(context.Background(), userID, "+919876543210", transport.UpdateProfileRequest{Name: "Muthu"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	resp, err := svc.Update(context.Background(), userID, "+919876543210", transport.UpdateProfileRequest{Crops: []string{"banana"}})
	if err != nil {
		t.Fatalf("Update crops: %v", err)
	}
	if resp.Name != "Muthu" {
		t.Fatalf("crop-only update touched name: %q", resp.Name)
	}
	if want := []string{"banana"}; !reflect.DeepEqual(resp.Crops, want) {
		t.Fatalf("crops = %v, want %v", resp.Crops, want)
	}
}

func TestUpdateCropsOnlyRequiresExistingProfile(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), uuid.New(), "+919876543210", transport.UpdateProfileRequest{Crops: []string{"banana"}})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUpdateRejectsEmptyRequest(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), uuid.New(), "+919876543210", transport.UpdateProfileRequest{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
