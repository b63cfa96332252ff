package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrDeviceIDRequired is returned when a snapshot arrives without its hardware id.
var ErrDeviceIDRequired = errors.New("deviceId is required")

// Device is the latest telemetry snapshot reported by a registered phone.
// DeviceID is the phone's stable hardware id (Android ID) and is unique.
type Device struct {
	ID           string    `json:"_id"`
	UserID       string    `json:"userId,omitempty"`
	DeviceID     string    `json:"deviceId"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	Brand        string    `json:"brand"`
	OSVersion    string    `json:"osVersion"`
	SDKVersion   string    `json:"sdkVersion"`
	CarrierName  string    `json:"carrierName"`
	SimSlotCount int       `json:"simSlotCount"`
	NetworkType  string    `json:"networkType"`
	PhoneNumber  string    `json:"phoneNumber"`
	Slot1Number  string    `json:"slot1Number"`
	Slot2Number  string    `json:"slot2Number"`
	BatteryLevel float64   `json:"batteryLevel"`
	LastActive   time.Time `json:"lastActive"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Normalize trims identifiers and checks the snapshot can be stored.
func (d *Device) Normalize() error {
	d.DeviceID = strings.TrimSpace(d.DeviceID)
	d.UserID = strings.TrimSpace(d.UserID)
	if d.DeviceID == "" {
		return ErrDeviceIDRequired
	}
	return nil
}

// ErrNotFound is returned when the device does not exist for the caller.
var ErrNotFound = errors.New("Device not found")
