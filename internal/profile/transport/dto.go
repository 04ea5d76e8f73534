package transport

import "github.com/google/uuid"

// UpdateProfileRequest is the body of PUT /users/profile. A request carrying
// a name performs a full profile upsert; a request carrying only crops
// updates the crop list of an existing profile.
type UpdateProfileRequest struct {
	Name     string   `json:"name"`
	Village  *string  `json:"village,omitempty"`
	Taluk    *string  `json:"taluk,omitempty"`
	District *string  `json:"district,omitempty"`
	Pincode  *string  `json:"pincode,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Crops    []string `json:"crops,omitempty"`
}

// ProfileResponse represents a farmer profile.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Village   *string   `json:"village,omitempty"`
	Taluk     *string   `json:"taluk,omitempty"`
	District  *string   `json:"district,omitempty"`
	Pincode   *string   `json:"pincode,omitempty"`
	Lat       *float64  `json:"lat,omitempty"`
	Lon       *float64  `json:"lon,omitempty"`
	Crops     []string  `json:"crops"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}
