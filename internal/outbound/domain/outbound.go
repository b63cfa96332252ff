package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrMissingFields is returned when a queued SMS lacks a destination, text, device or slot.
var ErrMissingFields = errors.New("All fields are required")

// OutboundSMS is a message waiting for a phone to send it.
type OutboundSMS struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId,omitempty"`
	DeviceID  string    `json:"deviceId"`
	ToNumber  string    `json:"toNumber"`
	Message   string    `json:"message"`
	SimSlot   string    `json:"simSlot"`
	Sent      bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate trims identifiers and requires every field.
func (o *OutboundSMS) Validate() error {
	o.DeviceID = strings.TrimSpace(o.DeviceID)
	o.ToNumber = strings.TrimSpace(o.ToNumber)
	o.SimSlot = strings.TrimSpace(o.SimSlot)
	if o.DeviceID == "" || o.ToNumber == "" || strings.TrimSpace(o.Message) == "" || o.SimSlot == "" {
		return ErrMissingFields
	}
	return nil
}
