// Package handler exposes health checks as HTTP probes and as the standard gRPC health service.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/health"
)

// HTTP serves /healthz and /readyz.
type HTTP struct {
	checker *health.Checker
}

// NewHTTP returns an HTTP health handler.
func NewHTTP(checker *health.Checker) *HTTP {
	return &HTTP{checker: checker}
}

// Live always answers 200 while the process serves requests.
func (h *HTTP) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready answers 503 when a dependency check fails.
func (h *HTTP) Ready(c *gin.Context) {
	if err := h.checker.Ready(c.Request.Context()); err != nil {
		log.WithError(err).Warn("health: not ready")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
