// Package handler exposes free-form entry endpoints over gin.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/entry/service"
	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/server/middleware"
)

// Handler serves /api/entries.
type Handler struct {
	entries *service.EntryService
}

// NewHandler returns a Handler.
func NewHandler(entries *service.EntryService) *Handler {
	return &Handler{entries: entries}
}

// Store handles POST /api/entries from phones. Both create and update answer 200.
func (h *Handler) Store(c *gin.Context) {
	// numbers stay json.Number so large ids keep their digits
	var payload map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		httpx.BadRequest(c)
		return
	}
	created, err := h.entries.Store(c.Request.Context(), payload)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if created {
		httpx.Message(c, http.StatusOK, "Created successfully")
		return
	}
	httpx.Message(c, http.StatusOK, "Updated successfully")
}

// List handles GET /api/entries.
func (h *Handler) List(c *gin.Context) {
	items, err := h.entries.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// ListByDevice handles GET /api/entries/device/:deviceId.
func (h *Handler) ListByDevice(c *gin.Context) {
	items, err := h.entries.ListForDevice(c.Request.Context(), middleware.UserID(c), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Delete handles DELETE /api/entries/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.entries.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Deleted successfully")
}
