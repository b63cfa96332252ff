// Package handler serves the dashboard counters for the logged-in user.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/dashboard"
	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/server/middleware"
)

type Handler struct {
	stats *dashboard.Service
}

func NewHandler(stats *dashboard.Service) *Handler {
	return &Handler{stats: stats}
}

// Get handles GET /api/dashboard.
func (h *Handler) Get(c *gin.Context) {
	st, err := h.stats.ForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
