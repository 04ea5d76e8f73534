package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"agrolink_backend/internal/buyers/repository"
	"agrolink_backend/internal/buyers/transport"
	domainevents "agrolink_backend/internal/events"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
)

type fakeDirectory struct {
	buyers  []repository.Buyer
	err     error
	queries int
}

func (f *fakeDirectory) FindByCropType(ctx context.Context, cropType string) ([]repository.Buyer, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return f.buyers, nil
}

func (f *fakeDirectory) ListRecent(ctx context.Context, limit int) ([]repository.Buyer, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return f.buyers, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func newTestService(dir *fakeDirectory) (*Service, *recordingBus) {
	bus := &recordingBus{}
	return New(dir, bus, logger.New("test")), bus
}

func TestSearchRejectsMissingCropTypeWithoutQuerying(t *testing.T) {
	dir := &fakeDirectory{}
	svc, _ := newTestService(dir)

	for _, cropType := range []string{"", "   "} {
		_, err := svc.Search(context.Background(), uuid.New(), transport.SearchRequest{CropType: cropType})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("cropType %q: err = %v, want validation error", cropType, err)
		}
	}
	if dir.queries != 0 {
		t.Fatalf("directory queried %d times for invalid requests, want 0", dir.queries)
	}
}

func TestSearchPropagatesDirectoryFailure(t *testing.T) {
	dir := &fakeDirectory{err: apperr.Dependency("failed to search buyers", errors.New("connection refused"))}
	svc, _ := newTestService(dir)

	_, err := svc.Search(context.Background(), uuid.New(), transport.SearchRequest{CropType: "tomato"})
	if !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("err = %v, want dependency error", err)
	}
}

func TestSearchRanksAndTrims(t *testing.T) {
	buyers := make([]repository.Buyer, 0, 25)
	for i := 0; i < 25; i++ {
		buyers = append(buyers, repository.Buyer{ID: uuid.New(), Name: "buyer", UserPlan: "free", CropNames: []string{"tomato"}})
	}
	premium := repository.Buyer{ID: uuid.New(), Name: "premium-buyer", UserPlan: "premium", CropNames: []string{"tomato"}}
	buyers = append(buyers, premium)

	svc, _ := newTestService(&fakeDirectory{buyers: buyers})

	resp, err := svc.Search(context.Background(), uuid.New(), transport.SearchRequest{CropType: "tomato", Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Buyers) != 10 {
		t.Fatalf("returned %d buyers, want 10", len(resp.Buyers))
	}
	if resp.Buyers[0].Name != "premium-buyer" {
		t.Fatalf("first buyer = %q, want the premium one", resp.Buyers[0].Name)
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	buyers := make([]repository.Buyer, 0, 30)
	for i := 0; i < 30; i++ {
		buyers = append(buyers, repository.Buyer{ID: uuid.New(), Name: "buyer"})
	}
	svc, _ := newTestService(&fakeDirectory{buyers: buyers})

	resp, err := svc.Search(context.Background(), uuid.New(), transport.SearchRequest{CropType: "tomato"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Buyers) != 20 {
		t.Fatalf("returned %d buyers, want default 20", len(resp.Buyers))
	}
}

func TestSearchCapacityFilter(t *testing.T) {
	small := repository.Buyer{ID: uuid.New(), Name: "small", CapacityKg: f64Ptr(100)}
	big := repository.Buyer{ID: uuid.New(), Name: "big", CapacityKg: f64Ptr(5000)}
	undeclared := repository.Buyer{ID: uuid.New(), Name: "undeclared"}

	svc, _ := newTestService(&fakeDirectory{buyers: []repository.Buyer{small, big, undeclared}})

	resp, err := svc.Search(context.Background(), uuid.New(), transport.SearchRequest{CropType: "tomato", Quantity: "500"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Buyers) != 2 {
		t.Fatalf("returned %d buyers, want 2 (undersized buyer dropped)", len(resp.Buyers))
	}
	for _, b := range resp.Buyers {
		if b.Name == "small" {
			t.Fatalf("buyer with insufficient capacity survived the filter")
		}
	}
}

func TestSearchIgnoresUnparseableQuantity(t *testing.T) {
	small := repository.Buyer{ID: uuid.New(), Name: "small", CapacityKg: f64Ptr(100)}
	svc, _ := newTestService(&fakeDirectory{buyers: []repository.Buyer{small}})

	resp, err := svc.Search(context.Background(), uuid.New(), transport.SearchRequest{CropType: "tomato", Quantity: "a lot"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Buyers) != 1 {
		t.Fatalf("returned %d buyers, want 1", len(resp.Buyers))
	}
}

func TestSearchPublishesEvent(t *testing.T) {
	userID := uuid.New()
	svc, bus := newTestService(&fakeDirectory{buyers: []repository.Buyer{{ID: uuid.New(), Name: "buyer"}}})

	_, err := svc.Search(context.Background(), userID, transport.SearchRequest{CropType: "tomato"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if len(bus.events) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.events))
	}
	ev, ok := bus.events[0].(domainevents.BuyerSearchPerformed)
	if !ok {
		t.Fatalf("event type = %T, want BuyerSearchPerformed", bus.events[0])
	}
	if ev.UserID != userID || ev.CropType != "tomato" || ev.Candidates != 1 || ev.Returned != 1 {
		t.Fatalf("unexpected event payload: %+v", ev)
	}
}

func TestListReturnsRecentBuyers(t *testing.T) {
	svc, _ := newTestService(&fakeDirectory{buyers: []repository.Buyer{{ID: uuid.New(), Name: "buyer"}}})

	resp, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(resp.Buyers) != 1 {
		t.Fatalf("returned %d buyers, want 1", len(resp.Buyers))
	}
}
