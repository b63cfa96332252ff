package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/policy/engine"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/server/httpx"
)

const bearerPrefix = "bearer "

// Authenticate reads the token from the session cookie or an Authorization: Bearer header and,
// when it validates, attaches the principal. It never rejects; RequireAccess decides.
func Authenticate(tokens *security.TokenProvider, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		ctx := context.WithValue(c.Request.Context(), tokenSentKey, true)
		if p, err := tokens.Validate(token); err == nil {
			ctx = WithPrincipal(ctx, p)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SubscriptionChecker reports whether a user still exists and has an unexpired subscription.
type SubscriptionChecker interface {
	SubscriptionActive(ctx context.Context, userID string) (exists, active bool, err error)
}

// RequireAccess asks the access policy whether the caller may use routes in group. User
// principals are re-checked against the store so a lapsed subscription is refused before the
// token expires.
func RequireAccess(eval engine.Evaluator, subs SubscriptionChecker, group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		in := engine.Principal{}
		if p := GetPrincipal(c); p != nil {
			in = engine.Principal{Subject: p.Subject, Kind: string(p.Kind), Role: p.Role}
			switch p.Kind {
			case security.KindUser:
				exists, active, err := subs.SubscriptionActive(ctx, p.Subject)
				if err != nil {
					httpx.Error(c, err)
					return
				}
				if !exists {
					httpx.Abort(c, http.StatusUnauthorized, "Unauthorized")
					return
				}
				in.SubscriptionActive = active
			case security.KindAdmin:
				in.SubscriptionActive = true
			}
		}
		d, err := eval.Evaluate(ctx, in, engine.Request{Group: group, Method: c.Request.Method, Route: c.FullPath()})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if d.Allowed {
			c.Next()
			return
		}
		log.WithFields(log.Fields{"route": c.FullPath(), "subject": in.Subject, "reason": d.Reason}).Debug("access: denied")
		switch d.Reason {
		case engine.ReasonUnauthenticated:
			if tokenSent(c) {
				httpx.Abort(c, http.StatusUnauthorized, "Unauthorized")
			} else {
				httpx.Abort(c, http.StatusUnauthorized, "No token provided")
			}
		case engine.ReasonSubscriptionExpired:
			httpx.Abort(c, http.StatusForbidden, "User subscription has expired")
		default:
			httpx.Abort(c, http.StatusForbidden, "Forbidden")
		}
	}
}

// RequireDeviceKey checks X-Device-Key against key. An empty key disables the check.
func RequireDeviceKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if !security.ConstantTimeEqual(c.GetHeader("X-Device-Key"), key) {
			httpx.Abort(c, http.StatusUnauthorized, "Invalid device key")
			return
		}
		c.Next()
	}
}

// extractToken prefers the cookie and falls back to the Authorization header.
func extractToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	v := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(v) < len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
