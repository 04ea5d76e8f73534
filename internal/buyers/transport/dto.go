package transport

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FlexibleInt is an int that tolerates sloppy client payloads: JSON numbers,
// numeric strings, and anything else (which decodes to zero so the caller's
// default applies).
type FlexibleInt int

// UnmarshalJSON accepts numbers and numeric strings; non-numeric input
// decodes to zero rather than failing the whole request.
func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		if v, err := number.Int64(); err == nil {
			*f = FlexibleInt(v)
			return nil
		}
		if v, err := number.Float64(); err == nil {
			*f = FlexibleInt(int(v))
			return nil
		}
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			*f = FlexibleInt(v)
			return nil
		}
	}

	*f = 0
	return nil
}

// SearchLocation carries the searcher's optional location hints.
type SearchLocation struct {
	Taluk    *string  `json:"taluk,omitempty"`
	District *string  `json:"district,omitempty"`
	Pincode  *string  `json:"pincode,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

// SearchRequest is the body of POST /buyers/search.
type SearchRequest struct {
	CropType string          `json:"cropType" validate:"required"`
	Quantity string          `json:"quantity,omitempty"`
	Location *SearchLocation `json:"location,omitempty"`
	Limit    FlexibleInt     `json:"limit,omitempty"`
}

// BuyerResponse represents a buyer in API responses.
type BuyerResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Village      *string   `json:"village,omitempty"`
	Taluk        *string   `json:"taluk,omitempty"`
	District     *string   `json:"district,omitempty"`
	Pincode      *string   `json:"pincode,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	UserPlan     string    `json:"userPlan"`
	CropNames    []string  `json:"cropNames"`
	CapacityKg   *float64  `json:"capacityKg,omitempty"`
	UpdatedAt    string    `json:"updatedAt,omitempty"`
	DistanceKm   *float64  `json:"distanceKm,omitempty"`
}

// SearchResponse wraps the ranked buyer list.
type SearchResponse struct {
	Buyers []BuyerResponse `json:"buyers"`
}

// ListResponse wraps the recent-buyers listing.
type ListResponse struct {
	Buyers []BuyerResponse `json:"buyers"`
}
