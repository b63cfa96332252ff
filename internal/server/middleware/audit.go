package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/audit"
)

// Audit records mutating requests made by an authenticated principal after the handler runs.
// Reads and anonymous device traffic are not audited. A nil logger disables it.
func Audit(logger audit.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if logger == nil || !mutating(c.Request.Method) || c.FullPath() == "" {
			return
		}
		p := GetPrincipal(c)
		if p == nil {
			return
		}
		ar := audit.ParseRoute(c.Request.Method, c.FullPath())
		resource := ar.Resource
		if id := firstParam(c); id != "" {
			resource = ar.Resource + ":" + id
		}
		logger.LogEvent(c.Request.Context(), p.Subject, string(p.Kind), ar.Action, resource, fmt.Sprintf(`{"status":%d}`, c.Writer.Status()))
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func firstParam(c *gin.Context) string {
	if len(c.Params) == 0 {
		return ""
	}
	return c.Params[0].Value
}
