// Package handler exposes inbound message endpoints over gin.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/message/domain"
	"sms-gateway/backend/internal/message/service"
	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/server/middleware"
)

// Handler serves /api/messages.
type Handler struct {
	messages *service.MessageService
}

// NewHandler returns a Handler.
func NewHandler(messages *service.MessageService) *Handler {
	return &Handler{messages: messages}
}

type storeRequest struct {
	UserID    string           `json:"userId"`
	DeviceID  string           `json:"deviceId"`
	Message   string           `json:"message"`
	Sender    string           `json:"sender"`
	SimNumber httpx.FlexString `json:"sim_number"`
	SimSlot   httpx.FlexString `json:"sim_slot"`
}

// Store handles POST /api/messages from phones.
func (h *Handler) Store(c *gin.Context) {
	var req storeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c)
		return
	}
	m := &domain.Message{
		UserID:    req.UserID,
		DeviceID:  req.DeviceID,
		Body:      req.Message,
		Sender:    req.Sender,
		SimNumber: req.SimNumber.String(),
		SimSlot:   req.SimSlot.String(),
	}
	if err := h.messages.Store(c.Request.Context(), m); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Message stored successfully")
}

// List handles GET /api/messages.
func (h *Handler) List(c *gin.Context) {
	msgs, err := h.messages.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allMessages": msgs})
}

// ListByDevice handles GET /api/messages/device/:deviceId.
func (h *Handler) ListByDevice(c *gin.Context) {
	msgs, err := h.messages.ListForDevice(c.Request.Context(), middleware.UserID(c), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allMessages": msgs})
}

// DeleteAll handles DELETE /api/messages.
func (h *Handler) DeleteAll(c *gin.Context) {
	n, err := h.messages.DeleteAllForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All messages deleted successfully", "deleted": n})
}

// DeleteByDevice handles DELETE /api/messages/device/:deviceId.
func (h *Handler) DeleteByDevice(c *gin.Context) {
	n, err := h.messages.DeleteAllForDevice(c.Request.Context(), middleware.UserID(c), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All messages deleted successfully for the device", "deleted": n})
}
