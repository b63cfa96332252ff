package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/telemetry"
)

// Telemetry emits an http_request event after each request. Best-effort: failures are logged
// and never change the response. A nil emitter disables it. skipRoutes are route templates to
// leave out (e.g. health probes).
func Telemetry(emitter telemetry.EventEmitter, skipRoutes map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if emitter == nil || skipRoutes[c.FullPath()] {
			return
		}
		event, err := telemetry.NewEvent(telemetry.EventHTTPRequest, "http_middleware", map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		if err != nil {
			log.WithError(err).Warn("telemetry: build http_request event")
			return
		}
		if p := GetPrincipal(c); p != nil {
			event.UserID = p.Subject
		}
		telemetry.EmitAsync(emitter, c.Request.Context(), event)
	}
}
