package transport

import "github.com/google/uuid"

// CreateListingRequest is the body of POST /listings.
type CreateListingRequest struct {
	CropName    string  `json:"cropName" validate:"required"`
	QuantityKg  float64 `json:"quantityKg" validate:"required,gt=0"`
	PricePerKg  float64 `json:"pricePerKg" validate:"gte=0"`
	Description string  `json:"description"`
}

// UpdateListingRequest is the body of PATCH /listings/:id. Nil fields are
// left unchanged.
type UpdateListingRequest struct {
	QuantityKg  *float64 `json:"quantityKg,omitempty"`
	PricePerKg  *float64 `json:"pricePerKg,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// ListingResponse represents one crop listing.
type ListingResponse struct {
	ID          uuid.UUID `json:"id"`
	CropName    string    `json:"cropName"`
	QuantityKg  float64   `json:"quantityKg"`
	PricePerKg  float64   `json:"pricePerKg"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	ImageURLs   []string  `json:"imageUrls"`
	CreatedAt   string    `json:"createdAt,omitempty"`
	UpdatedAt   string    `json:"updatedAt,omitempty"`
}

// ListingsResponse wraps a listing collection.
type ListingsResponse struct {
	Listings []ListingResponse `json:"listings"`
}

// UploadImageResponse is returned after an image upload.
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}
