package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"agrolink_backend/internal/buyers/repository"
	"agrolink_backend/internal/buyers/transport"
)

func TestClampLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 20},
		{-5, 1},
		{1, 1},
		{20, 20},
		{50, 50},
		{51, 50},
		{1000, 50},
	}
	for _, tc := range cases {
		if got := clampLimit(tc.in); got != tc.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func namedBuyer(name string, mutate func(*repository.Buyer)) repository.Buyer {
	b := repository.Buyer{ID: uuid.New(), Name: name, UserPlan: "free"}
	if mutate != nil {
		mutate(&b)
	}
	return b
}

func rankedNames(ranked []rankedBuyer) []string {
	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.buyer.Name)
	}
	return names
}

func assertOrder(t *testing.T, ranked []rankedBuyer, want ...string) {
	t.Helper()
	got := rankedNames(ranked)
	if len(got) != len(want) {
		t.Fatalf("got %d buyers %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestRankPremiumOutranksCloserFreeBuyer(t *testing.T) {
	// Searcher in Chennai. The free buyer is next door, the premium buyer
	// hundreds of km away. Premium still wins.
	loc := &transport.SearchLocation{Lat: f64Ptr(13.0827), Lon: f64Ptr(80.2707)}

	near := namedBuyer("near-free", func(b *repository.Buyer) {
		b.Latitude, b.Longitude = f64Ptr(13.08), f64Ptr(80.27)
	})
	far := namedBuyer("far-premium", func(b *repository.Buyer) {
		b.UserPlan = "premium"
		b.Latitude, b.Longitude = f64Ptr(8.0883), f64Ptr(77.5385)
	})

	ranked := rank([]repository.Buyer{near, far}, loc, 20)
	assertOrder(t, ranked, "far-premium", "near-free")
}

func TestRankLocalityBeatsDistanceWithinTier(t *testing.T) {
	loc := &transport.SearchLocation{
		District: strPtr("Madurai"),
		Lat:      f64Ptr(9.9252),
		Lon:      f64Ptr(78.1198),
	}

	// Same district but physically farther.
	local := namedBuyer("same-district", func(b *repository.Buyer) {
		b.District = strPtr("Madurai")
		b.Latitude, b.Longitude = f64Ptr(10.8), f64Ptr(78.7)
	})
	// Closer but in another district.
	closer := namedBuyer("other-district", func(b *repository.Buyer) {
		b.District = strPtr("Dindigul")
		b.Latitude, b.Longitude = f64Ptr(9.93), f64Ptr(78.12)
	})

	ranked := rank([]repository.Buyer{closer, local}, loc, 20)
	assertOrder(t, ranked, "same-district", "other-district")
}

func TestRankDistanceBreaksLocalityTie(t *testing.T) {
	loc := &transport.SearchLocation{Lat: f64Ptr(9.9252), Lon: f64Ptr(78.1198)}

	near := namedBuyer("near", func(b *repository.Buyer) {
		b.Latitude, b.Longitude = f64Ptr(9.93), f64Ptr(78.12)
	})
	far := namedBuyer("far", func(b *repository.Buyer) {
		b.Latitude, b.Longitude = f64Ptr(11.0), f64Ptr(79.0)
	})

	ranked := rank([]repository.Buyer{far, near}, loc, 20)
	assertOrder(t, ranked, "near", "far")
}

func TestRankUnlocatableBuyersSortAfterLocatable(t *testing.T) {
	loc := &transport.SearchLocation{Lat: f64Ptr(9.9252), Lon: f64Ptr(78.1198)}

	located := namedBuyer("located", func(b *repository.Buyer) {
		b.Latitude, b.Longitude = f64Ptr(13.0), f64Ptr(80.2)
	})
	unlocated := namedBuyer("unlocated", nil)

	ranked := rank([]repository.Buyer{unlocated, located}, loc, 20)
	assertOrder(t, ranked, "located", "unlocated")
}

func TestRankPremiumBeatsFresherFreeBuyer(t *testing.T) {
	stale := namedBuyer("stale-premium", func(b *repository.Buyer) {
		b.UserPlan = "Premium"
		b.UpdatedAt = timePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	})
	fresh := namedBuyer("fresh-free", func(b *repository.Buyer) {
		b.UpdatedAt = timePtr(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	})

	ranked := rank([]repository.Buyer{fresh, stale}, nil, 20)
	assertOrder(t, ranked, "stale-premium", "fresh-free")
}

func TestRankTalukMatchWinsAllElseEqual(t *testing.T) {
	loc := &transport.SearchLocation{Taluk: strPtr("Melur")}

	inTaluk := namedBuyer("in-taluk", func(b *repository.Buyer) {
		b.Taluk = strPtr("Melur")
	})
	outside := namedBuyer("outside", func(b *repository.Buyer) {
		b.Taluk = strPtr("Usilampatti")
	})

	ranked := rank([]repository.Buyer{outside, inTaluk}, loc, 20)
	assertOrder(t, ranked, "in-taluk", "outside")
}

func TestRankRecencyBreaksFullTie(t *testing.T) {
	older := namedBuyer("older", func(b *repository.Buyer) {
		b.UpdatedAt = timePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	})
	newer := namedBuyer("newer", func(b *repository.Buyer) {
		b.UpdatedAt = timePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	})

	ranked := rank([]repository.Buyer{older, newer}, nil, 20)
	assertOrder(t, ranked, "newer", "older")
}

func TestRankStableForIdenticalTuples(t *testing.T) {
	a := namedBuyer("first", nil)
	b := namedBuyer("second", nil)
	c := namedBuyer("third", nil)

	ranked := rank([]repository.Buyer{a, b, c}, nil, 20)
	assertOrder(t, ranked, "first", "second", "third")
}

func TestRankAppliesLimit(t *testing.T) {
	buyers := make([]repository.Buyer, 0, 30)
	for i := 0; i < 30; i++ {
		buyers = append(buyers, namedBuyer("b", nil))
	}

	if got := len(rank(buyers, nil, 5)); got != 5 {
		t.Fatalf("len = %d, want 5", got)
	}
	if got := len(rank(buyers, nil, 50)); got != 30 {
		t.Fatalf("len = %d, want all 30 when limit exceeds candidates", got)
	}
}

func TestRankFullPrecedence(t *testing.T) {
	// One buyer per tier, deliberately shuffled on input.
	loc := &transport.SearchLocation{
		District: strPtr("Madurai"),
		Lat:      f64Ptr(9.9252),
		Lon:      f64Ptr(78.1198),
	}

	premium := namedBuyer("premium", func(b *repository.Buyer) { b.UserPlan = "premium" })
	localNear := namedBuyer("local-near", func(b *repository.Buyer) {
		b.District = strPtr("Madurai")
		b.Latitude, b.Longitude = f64Ptr(9.93), f64Ptr(78.12)
	})
	localFar := namedBuyer("local-far", func(b *repository.Buyer) {
		b.District = strPtr("Madurai")
		b.Latitude, b.Longitude = f64Ptr(11.0), f64Ptr(79.5)
	})
	plain := namedBuyer("plain", nil)

	ranked := rank([]repository.Buyer{plain, localFar, premium, localNear}, loc, 20)
	assertOrder(t, ranked, "premium", "local-near", "local-far", "plain")
}
