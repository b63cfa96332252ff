// Package middleware holds the gin middleware chain: caller identity, route access, device keys,
// request logging, telemetry and audit.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/security"
)

type contextKey struct{ name string }

var (
	principalKey = contextKey{"principal"}
	tokenSentKey = contextKey{"token_sent"}
)

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p *security.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal set by WithPrincipal, or nil.
func PrincipalFromContext(ctx context.Context) *security.Principal {
	p, _ := ctx.Value(principalKey).(*security.Principal)
	return p
}

// SetPrincipal attaches p to the request so later middleware and handlers see it. Login handlers
// call it after issuing a token so the login itself is audited under the new identity.
func SetPrincipal(c *gin.Context, p *security.Principal) {
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

// GetPrincipal returns the caller's principal, or nil for anonymous requests.
func GetPrincipal(c *gin.Context) *security.Principal {
	return PrincipalFromContext(c.Request.Context())
}

// UserID returns the subject of a user principal, or "" when the caller is not a dashboard user.
func UserID(c *gin.Context) string {
	p := GetPrincipal(c)
	if p == nil || p.Kind != security.KindUser {
		return ""
	}
	return p.Subject
}

func tokenSent(c *gin.Context) bool {
	v, _ := c.Request.Context().Value(tokenSentKey).(bool)
	return v
}
