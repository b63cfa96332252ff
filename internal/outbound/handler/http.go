// Package handler exposes the outbound SMS queue over gin.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/outbound/domain"
	"sms-gateway/backend/internal/outbound/service"
	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/server/middleware"
)

// Handler serves /api/sms.
type Handler struct {
	queue *service.OutboundService
}

// NewHandler returns a Handler.
func NewHandler(queue *service.OutboundService) *Handler {
	return &Handler{queue: queue}
}

type queueRequest struct {
	DeviceID string           `json:"deviceId"`
	ToNumber httpx.FlexString `json:"toNumber"`
	Message  string           `json:"message"`
	SimSlot  httpx.FlexString `json:"simSlot"`
}

// Queue handles POST /api/sms from the dashboard.
func (h *Handler) Queue(c *gin.Context) {
	var req queueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c)
		return
	}
	o := &domain.OutboundSMS{DeviceID: req.DeviceID, ToNumber: req.ToNumber.String(), Message: req.Message, SimSlot: req.SimSlot.String()}
	if err := h.queue.Queue(c.Request.Context(), middleware.UserID(c), o); err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message queued for sending", "sms": o})
}

// List handles GET /api/sms.
func (h *Handler) List(c *gin.Context) {
	items, err := h.queue.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Pending handles GET /api/sms/pending/:deviceId for phones. The body is a bare array.
func (h *Handler) Pending(c *gin.Context) {
	items, err := h.queue.Pending(c.Request.Context(), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkSent handles POST /api/sms/:id/sent for phones.
func (h *Handler) MarkSent(c *gin.Context) {
	if err := h.queue.MarkSent(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Message marked as sent")
}
