// Package handler exposes device snapshot endpoints over gin.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-gateway/backend/internal/device/domain"
	"sms-gateway/backend/internal/device/service"
	"sms-gateway/backend/internal/server/httpx"
	"sms-gateway/backend/internal/server/middleware"
)

// Handler serves /api/devices.
type Handler struct {
	devices *service.DeviceService
}

// NewHandler returns a Handler.
func NewHandler(devices *service.DeviceService) *Handler {
	return &Handler{devices: devices}
}

// reportRequest is a device snapshot whose numeric readings may arrive as strings.
type reportRequest struct {
	domain.Device
	SimSlotCount httpx.FlexFloat `json:"simSlotCount"`
	BatteryLevel httpx.FlexFloat `json:"batteryLevel"`
}

// Report handles POST /api/devices from phones: 201 for a new device, 200 for an update.
func (h *Handler) Report(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c)
		return
	}
	d := req.Device
	d.ID = ""
	d.SimSlotCount = int(req.SimSlotCount)
	d.BatteryLevel = float64(req.BatteryLevel)
	created, err := h.devices.Report(c.Request.Context(), &d)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if created {
		httpx.Message(c, http.StatusCreated, "Device stored successfully")
		return
	}
	httpx.Message(c, http.StatusOK, "Device updated successfully")
}

// List handles GET /api/devices.
func (h *Handler) List(c *gin.Context) {
	devices, err := h.devices.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// Get handles GET /api/devices/:deviceId.
func (h *Handler) Get(c *gin.Context) {
	d, err := h.devices.GetForUser(c.Request.Context(), middleware.UserID(c), c.Param("deviceId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /api/devices/:deviceId.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.devices.DeleteForUser(c.Request.Context(), middleware.UserID(c), c.Param("deviceId")); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, http.StatusOK, "Device deleted successfully")
}
