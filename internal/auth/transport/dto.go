package transport

import "github.com/google/uuid"

// SendOTPRequest is the body of POST /auth/send-otp.
type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// VerifyOTPRequest is the body of POST /auth/verify-otp.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required,numeric"`
}

// UserResponse represents the authenticated account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	CreatedAt string    `json:"createdAt,omitempty"`
}

// VerifyOTPResponse carries the session token issued on login.
type VerifyOTPResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
