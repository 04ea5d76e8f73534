package service

import (
	"sort"

	"agrolink_backend/internal/buyers/repository"
	"agrolink_backend/internal/buyers/transport"
)

const (
	defaultSearchLimit = 20
	minSearchLimit     = 1
	maxSearchLimit     = 50
)

// rankedBuyer pairs a candidate with its computed score.
type rankedBuyer struct {
	buyer repository.Buyer
	score scoreTuple
}

// clampLimit normalizes a requested page size. Zero or absent means the
// default; anything else is clamped into [minSearchLimit, maxSearchLimit].
func clampLimit(requested int) int {
	if requested == 0 {
		requested = defaultSearchLimit
	}
	if requested > maxSearchLimit {
		return maxSearchLimit
	}
	if requested < minSearchLimit {
		return minSearchLimit
	}
	return requested
}

// rank scores every candidate against the searcher's location and orders
// them: premium first, then locality score, then distance, then recency.
// The sort is stable so equal tuples keep their directory order.
func rank(candidates []repository.Buyer, loc *transport.SearchLocation, limit int) []rankedBuyer {
	ranked := make([]rankedBuyer, 0, len(candidates))
	for _, b := range candidates {
		ranked = append(ranked, rankedBuyer{buyer: b, score: score(b, loc)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].score, ranked[j].score
		if a.isPremium != b.isPremium {
			return a.isPremium > b.isPremium
		}
		if a.localityScore != b.localityScore {
			return a.localityScore > b.localityScore
		}
		if a.distanceKm != b.distanceKm {
			return a.distanceKm < b.distanceKm
		}
		return a.updatedAtMs > b.updatedAtMs
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
