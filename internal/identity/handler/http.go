// Package handler exposes login, logout, password and phone endpoints over gin.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/identity/service"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/server/middleware"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler serves the identity endpoints.
type Handler struct {
	auth   *service.AuthService
	cookie CookieConfig
}

// NewHandler returns a Handler.
func NewHandler(auth *service.AuthService, cookie CookieConfig) *Handler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &Handler{auth: auth, cookie: cookie}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserLogin handles POST /api/login.
func (h *Handler) UserLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, service.ErrInvalidCredentials)
		return
	}
	res, err := h.auth.UserLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.loggedIn(c, res)
}

// AdminLogin handles POST /api/admin/login.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, service.ErrInvalidCredentials)
		return
	}
	res, err := h.auth.AdminLogin(req.Username, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.loggedIn(c, res)
}

func (h *Handler) loggedIn(c *gin.Context, res *service.LoginResult) {
	middleware.SetPrincipal(c, &security.Principal{Subject: res.Subject, Kind: res.Kind, Role: res.Role, ExpiresAt: res.ExpiresAt})
	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, res.Token, maxAge, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, loginResponse{Message: "Login successful", Role: res.Role, Token: res.Token, ExpiresAt: res.ExpiresAt})
}

// Logout handles POST /api/logout by expiring the cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	httpx.Message(c, http.StatusOK, "Logged out successfully")
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles POST /api/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c)
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), middleware.UserID(c), req.OldPassword, req.NewPassword); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Password updated successfully")
}

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// GetPhone handles GET /api/phone for the logged-in user.
func (h *Handler) GetPhone(c *gin.Context) {
	phone, err := h.auth.GetPhone(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, phoneRequest{PhoneNumber: phone})
}

// UpdatePhone handles PUT /api/phone.
func (h *Handler) UpdatePhone(c *gin.Context) {
	var req phoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c)
		return
	}
	if err := h.auth.UpdatePhone(c.Request.Context(), middleware.UserID(c), req.PhoneNumber); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Phone number updated successfully")
}

// GetPhoneForApp handles GET /api/users/:id/phone for the phone app. The number is sent as plain text.
func (h *Handler) GetPhoneForApp(c *gin.Context) {
	phone, err := h.auth.GetPhone(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.String(http.StatusOK, phone)
}
