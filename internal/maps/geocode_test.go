package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/logger"
)

func TestGeocode(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`[{"lat": "9.9252", "lon": "78.1198"}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, logger.New("test"))
	coords, err := g.Geocode(context.Background(), "Madurai North", "Madurai", "625001")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if coords == nil || coords.Lat != 9.9252 || coords.Lon != 78.1198 {
		t.Fatalf("coords = %+v", coords)
	}
	if gotQuery != "Madurai North, Madurai, 625001, India" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, logger.New("test"))
	coords, err := g.Geocode(context.Background(), "", "Nowhereville", "")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if coords != nil {
		t.Fatalf("coords = %+v, want nil for unknown place", coords)
	}
}

func TestGeocodeEmptyInput(t *testing.T) {
	g := NewGeocoder("http://unused.invalid", logger.New("test"))
	_, err := g.Geocode(context.Background(), "", "", " ")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
