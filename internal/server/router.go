// Package server wires the gin router and the gRPC health server.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/audit"
	audithandler "sms-gateway/backend/internal/audit/handler"
	dashboardhandler "sms-gateway/backend/internal/dashboard/handler"
	devicehandler "sms-gateway/backend/internal/device/handler"
	entryhandler "sms-gateway/backend/internal/entry/handler"
	healthhandler "sms-gateway/backend/internal/health/handler"
	identityhandler "sms-gateway/backend/internal/identity/handler"
	messagehandler "sms-gateway/backend/internal/message/handler"
	outboundhandler "sms-gateway/backend/internal/outbound/handler"
	"sms-gateway/backend/internal/policy/engine"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/server/middleware"
	"sms-gateway/backend/internal/telemetry"
	userhandler "sms-gateway/backend/internal/user/handler"
)

// Deps holds everything the router needs. Audit and Emitter may be nil.
type Deps struct {
	Tokens        *security.TokenProvider
	CookieName    string
	Access        engine.Evaluator
	Subscriptions middleware.SubscriptionChecker
	DeviceAPIKey  string
	CORSOrigins   []string
	Audit         audit.AuditLogger
	Emitter       telemetry.EventEmitter

	Health    *healthhandler.HTTP
	Identity  *identityhandler.Handler
	Users     *userhandler.Handler
	Devices   *devicehandler.Handler
	Messages  *messagehandler.Handler
	Outbound  *outboundhandler.Handler
	Entries   *entryhandler.Handler
	Dashboard *dashboardhandler.Handler
	AuditLogs *audithandler.Handler
}

// probeRoutes are excluded from request telemetry.
var probeRoutes = map[string]bool{"/healthz": true, "/readyz": true}

// NewRouter builds the HTTP API.
//
// Route groups and who may call them:
//   - public: login, admin login, logout
//   - device: endpoints the phone app calls (optionally guarded by X-Device-Key)
//   - user:   dashboard endpoints scoped to the logged-in user
//   - admin:  account management and the audit log
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.WithField("panic", recovered).WithField("route", c.FullPath()).Error("http: handler panicked")
			httpx.Abort(c, http.StatusInternalServerError, httpx.InternalErrorMessage)
		}),
		middleware.RequestLogger(),
		middleware.CORS(d.CORSOrigins),
		middleware.Authenticate(d.Tokens, d.CookieName),
		middleware.Telemetry(d.Emitter, probeRoutes),
		middleware.Audit(d.Audit),
	)
	r.NoRoute(func(c *gin.Context) { httpx.Abort(c, http.StatusNotFound, "Not found") })

	r.GET("/healthz", d.Health.Live)
	r.GET("/readyz", d.Health.Ready)

	api := r.Group("/api")

	public := api.Group("", middleware.RequireAccess(d.Access, d.Subscriptions, engine.GroupPublic))
	public.POST("/login", d.Identity.UserLogin)
	public.POST("/admin/login", d.Identity.AdminLogin)
	public.POST("/logout", d.Identity.Logout)

	device := api.Group("",
		middleware.RequireDeviceKey(d.DeviceAPIKey),
		middleware.RequireAccess(d.Access, d.Subscriptions, engine.GroupDevice),
	)
	device.POST("/devices", d.Devices.Report)
	device.POST("/messages", d.Messages.Store)
	device.POST("/entries", d.Entries.Store)
	device.GET("/sms/pending/:deviceId", d.Outbound.Pending)
	device.POST("/sms/:id/sent", d.Outbound.MarkSent)
	device.GET("/users/:id/phone", d.Identity.GetPhoneForApp)

	user := api.Group("", middleware.RequireAccess(d.Access, d.Subscriptions, engine.GroupUser))
	user.GET("/dashboard", d.Dashboard.Get)
	user.POST("/password", d.Identity.ChangePassword)
	user.GET("/phone", d.Identity.GetPhone)
	user.PUT("/phone", d.Identity.UpdatePhone)
	user.GET("/devices", d.Devices.List)
	user.GET("/devices/:deviceId", d.Devices.Get)
	user.DELETE("/devices/:deviceId", d.Devices.Delete)
	user.GET("/messages", d.Messages.List)
	user.DELETE("/messages", d.Messages.DeleteAll)
	user.GET("/messages/device/:deviceId", d.Messages.ListByDevice)
	user.DELETE("/messages/device/:deviceId", d.Messages.DeleteByDevice)
	user.GET("/entries", d.Entries.List)
	user.GET("/entries/device/:deviceId", d.Entries.ListByDevice)
	user.DELETE("/entries/:id", d.Entries.Delete)
	user.POST("/sms", d.Outbound.Queue)
	user.GET("/sms", d.Outbound.List)

	admin := api.Group("/admin", middleware.RequireAccess(d.Access, d.Subscriptions, engine.GroupAdmin))
	admin.POST("/users", d.Users.Create)
	admin.GET("/users", d.Users.List)
	admin.GET("/users/:id", d.Users.Get)
	admin.PUT("/users/:id", d.Users.Update)
	admin.DELETE("/users/:id", d.Users.Delete)
	admin.GET("/users/:id/stats", d.Users.Stats)
	admin.DELETE("/users/:id/messages", d.Users.PurgeMessages)
	admin.GET("/audit", d.AuditLogs.List)

	return r
}
