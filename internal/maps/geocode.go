// Package maps resolves free-text locality names to coordinates using the
// Nominatim API. Used by the buyer-geocode backfill tool.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/logger"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "agrolink-backend/1.0"
	requestTimeout = 15 * time.Second
)

// Coordinates is a geocoding result.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder turns place names into coordinates.
type Geocoder struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

func NewGeocoder(baseURL string, log *logger.Logger) *Geocoder {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Geocoder{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a locality. A nil result with nil error means the place
// was not found.
func (g *Geocoder) Geocode(ctx context.Context, taluk, district, pincode string) (*Coordinates, error) {
	parts := make([]string, 0, 4)
	for _, p := range []string{taluk, district, pincode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) == 0 {
		return nil, apperr.Validation("nothing to geocode")
	}
	parts = append(parts, "India")

	q := url.Values{}
	q.Set("q", strings.Join(parts, ", "))
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, apperr.Dependency("failed to build geocode request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Dependency("failed to reach geocoder", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Dependency("geocoder request failed", fmt.Errorf("status %d", resp.StatusCode))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperr.Dependency("failed to decode geocoder response", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, apperr.Dependency("geocoder returned bad latitude", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, apperr.Dependency("geocoder returned bad longitude", err)
	}
	return &Coordinates{Lat: lat, Lon: lon}, nil
}
