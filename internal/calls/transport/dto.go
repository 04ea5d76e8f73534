package transport

import "github.com/google/uuid"

// CreateCallRequest is the body of POST /calls.
type CreateCallRequest struct {
	CalleePhone string `json:"calleePhone" validate:"required"`
	Direction   string `json:"direction" validate:"required,oneof=outgoing incoming"`
	BuyerID     string `json:"buyerId,omitempty"`
}

// UpdateCallRequest is the body of PATCH /calls/:id. Nil fields are left
// unchanged.
type UpdateCallRequest struct {
	Status          *string `json:"status,omitempty"`
	DurationSeconds *int    `json:"durationSeconds,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// CallResponse represents one logged call.
type CallResponse struct {
	ID              uuid.UUID  `json:"id"`
	CalleePhone     string     `json:"calleePhone"`
	Direction       string     `json:"direction"`
	Status          string     `json:"status"`
	DurationSeconds int        `json:"durationSeconds"`
	Notes           string     `json:"notes,omitempty"`
	BuyerID         *uuid.UUID `json:"buyerId,omitempty"`
	CreatedAt       string     `json:"createdAt,omitempty"`
}

// CallsResponse wraps a call history.
type CallsResponse struct {
	Calls []CallResponse `json:"calls"`
}
