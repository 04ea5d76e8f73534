package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agrolink_backend/internal/auth/service"
	"agrolink_backend/internal/auth/transport"
	"agrolink_backend/platform/httpkit"
	"agrolink_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SendOTP handles POST /auth/send-otp.
func (h *Handler) SendOTP(c *gin.Context) {
	var req transport.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "phone is required")
		return
	}

	if err := h.svc.SendOTP(c.Request.Context(), req.Phone); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "OTP sent", nil)
}

// VerifyOTP handles POST /auth/verify-otp.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req transport.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "phone and otp are required")
		return
	}

	resp, err := h.svc.VerifyOTP(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "Login successful", resp)
}

// Logout handles POST /auth/logout. Sessions are stateless, so logout is a
// client-side token discard acknowledged by the server.
func (h *Handler) Logout(c *gin.Context) {
	if identity := httpkit.MustGetIdentity(c); identity == nil {
		return
	}
	httpkit.OK(c, "Logged out", nil)
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.Me(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "user fetched", resp)
}
