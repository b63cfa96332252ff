// Package handler exposes the admin user management endpoints over gin.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/user/domain"
	"sms-gateway/backend/internal/user/service"
)

// Handler serves /api/admin/users.
type Handler struct {
	users *service.UserService
}

// NewHandler returns a Handler.
func NewHandler(users *service.UserService) *Handler {
	return &Handler{users: users}
}

type userRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	ValidUpto string `json:"validUpto"`
}

func (r userRequest) validUpto() (time.Time, error) {
	if r.ValidUpto == "" {
		return time.Time{}, nil
	}
	return domain.ParseValidUpto(r.ValidUpto)
}

// Create handles POST /api/admin/users.
func (h *Handler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c)
		return
	}
	validUpto, err := req.validUpto()
	if err != nil {
		httpx.Abort(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.Create(c.Request.Context(), service.CreateInput{Username: req.Username, Password: req.Password, ValidUpto: validUpto})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": u})
}

// List handles GET /api/admin/users.
func (h *Handler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get handles GET /api/admin/users/:id.
func (h *Handler) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Update handles PUT /api/admin/users/:id.
func (h *Handler) Update(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c)
		return
	}
	validUpto, err := req.validUpto()
	if err != nil {
		httpx.Abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.users.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{Username: req.Username, Password: req.Password, ValidUpto: validUpto}); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "User updated successfully")
}

// Delete handles DELETE /api/admin/users/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "User deleted successfully")
}

// Stats handles GET /api/admin/users/:id/stats.
func (h *Handler) Stats(c *gin.Context) {
	st, err := h.users.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// PurgeMessages handles DELETE /api/admin/users/:id/messages.
func (h *Handler) PurgeMessages(c *gin.Context) {
	n, err := h.users.PurgeMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All messages deleted successfully", "deleted": n})
}
