// Package handler exposes the audit log to the admin.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/audit"
	"sms-gateway/backend/internal/server/httpx"
)

// Handler serves GET /api/admin/audit.
type Handler struct {
	logs *audit.Logger
}

// NewHandler returns a Handler.
func NewHandler(logs *audit.Logger) *Handler {
	return &Handler{logs: logs}
}

// List returns audit rows newest first. Query params limit and offset page through them.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	logs, err := h.logs.List(c.Request.Context(), limit, offset)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
