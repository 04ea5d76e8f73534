package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agrolink_backend/internal/calls/service"
	"agrolink_backend/internal/calls/transport"
	"agrolink_backend/platform/httpkit"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /calls.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.svc.Log(c.Request.Context(), identity.UserID(), identity.Phone(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "call logged", resp)
}

// List handles GET /calls.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.History(c.Request.Context(), identity.UserID(), identity.Phone())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "calls fetched", resp)
}

// Update handles PATCH /calls/:id.
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid call id")
		return
	}

	var req transport.UpdateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), identity.UserID(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, "call updated", resp)
}
