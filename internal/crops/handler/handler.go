package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agrolink_backend/internal/crops/service"
	"agrolink_backend/internal/crops/transport"
	"agrolink_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Catalog handles GET /crops.
func (h *Handler) Catalog(c *gin.Context) {
	resp, err := h.svc.Catalog(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "crops fetched", resp)
}

// ListMine handles GET /users/crops.
func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.ListMine(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "crops fetched", resp)
}

// Add handles POST /users/crops.
func (h *Handler) Add(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.AddCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.svc.Add(c.Request.Context(), identity.UserID(), req.CropName)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "crop added", resp)
}

// Remove handles DELETE /users/crops/:id.
func (h *Handler) Remove(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	cropID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid crop id")
		return
	}

	if err := h.svc.Remove(c.Request.Context(), identity.UserID(), cropID); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "crop removed", nil)
}

// SetStatus handles PATCH /users/crops/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	cropID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid crop id")
		return
	}

	var req transport.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.svc.SetStatus(c.Request.Context(), identity.UserID(), cropID, req.Status)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "crop status updated", resp)
}
