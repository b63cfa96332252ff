package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultRetentionLimit is how many messages are kept per user and per device unless configured otherwise.
const DefaultRetentionLimit = 2000

// ErrMissingField is returned when an inbound message lacks a required field.
type ErrMissingField struct {
	Field string
}

func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Message is one inbound SMS captured by a phone.
// Seq is assigned by storage in insert order and breaks ties between equal CreatedAt values.
type Message struct {
	ID        string    `json:"_id"`
	Seq       int64     `json:"-"`
	UserID    string    `json:"userId,omitempty"`
	DeviceID  string    `json:"deviceId"`
	Body      string    `json:"message"`
	Sender    string    `json:"sender"`
	SimNumber string    `json:"sim_number"`
	SimSlot   string    `json:"sim_slot"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate trims fields and reports the first missing one.
func (m *Message) Validate() error {
	m.UserID = strings.TrimSpace(m.UserID)
	m.DeviceID = strings.TrimSpace(m.DeviceID)
	m.SimNumber = strings.TrimSpace(m.SimNumber)
	m.SimSlot = strings.TrimSpace(m.SimSlot)
	for _, f := range []struct{ name, val string }{
		{"deviceId", m.DeviceID},
		{"message", m.Body},
		{"sender", m.Sender},
		{"sim_number", m.SimNumber},
		{"sim_slot", m.SimSlot},
	} {
		if strings.TrimSpace(f.val) == "" {
			return &ErrMissingField{Field: f.name}
		}
	}
	return nil
}
