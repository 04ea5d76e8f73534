package transport

import "github.com/google/uuid"

// CatalogCropResponse is one entry in the crop catalog.
type CatalogCropResponse struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// AddCropRequest is the body of POST /users/crops.
type AddCropRequest struct {
	CropName string `json:"cropName" validate:"required"`
}

// SetStatusRequest is the body of PATCH /users/crops/:id/status. Status is
// "on", "off", or a positive number of days the crop stays available.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UserCropResponse is one crop a farmer sells.
type UserCropResponse struct {
	ID             uuid.UUID `json:"id"`
	CropName       string    `json:"cropName"`
	Status         string    `json:"status"`
	AvailableUntil string    `json:"availableUntil,omitempty"`
}

// UserCropsResponse wraps a farmer's crop list.
type UserCropsResponse struct {
	Crops []UserCropResponse `json:"crops"`
}

// CatalogResponse wraps the crop catalog.
type CatalogResponse struct {
	Crops []CatalogCropResponse `json:"crops"`
}
