package service

import (
	"math"
	"strings"

	"agrolink_backend/internal/buyers/repository"
	"agrolink_backend/internal/buyers/transport"
)

// unknownDistanceKm is the sentinel used when either side of a pair lacks
// coordinates. It is larger than any real surface distance on Earth, so
// unlocatable buyers always sort after locatable ones within a tier.
const unknownDistanceKm = 99999

const earthRadiusKm = 6371

// scoreTuple is everything the comparator needs about one candidate.
type scoreTuple struct {
	isPremium     int
	localityScore int
	distanceKm    float64
	updatedAtMs   int64
}

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// score computes the ranking tuple for one buyer against the searcher's
// location. A nil location means no locality or distance signal at all.
func score(b repository.Buyer, loc *transport.SearchLocation) scoreTuple {
	t := scoreTuple{
		distanceKm: unknownDistanceKm,
	}

	if strings.EqualFold(b.UserPlan, "premium") {
		t.isPremium = 1
	}

	if b.UpdatedAt != nil {
		t.updatedAtMs = b.UpdatedAt.UnixMilli()
	}

	if loc == nil {
		return t
	}

	if matches(loc.Taluk, b.Taluk) {
		t.localityScore += 3
	}
	if matches(loc.District, b.District) {
		t.localityScore += 2
	}
	if matches(loc.Pincode, b.Pincode) {
		t.localityScore += 1
	}

	if loc.Lat != nil && loc.Lon != nil && b.Latitude != nil && b.Longitude != nil {
		t.distanceKm = haversineKm(*loc.Lat, *loc.Lon, *b.Latitude, *b.Longitude)
	}

	return t
}

// matches reports whether both sides are present, non-empty, and equal.
func matches(query, candidate *string) bool {
	if query == nil || candidate == nil {
		return false
	}
	q := strings.TrimSpace(*query)
	c := strings.TrimSpace(*candidate)
	if q == "" || c == "" {
		return false
	}
	return strings.EqualFold(q, c)
}
