package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrKeyRequired is returned when a stored entry carries no client id.
var ErrKeyRequired = errors.New("id field is required")

// Reserved payload fields. They are lifted to columns and never stored in Data.
const (
	fieldKey       = "id"
	fieldRecordID  = "_id"
	fieldUserID    = "userId"
	fieldDeviceID  = "deviceId"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

// Entry is a free-form document pushed by a phone and keyed by the client's own id.
type Entry struct {
	ID        string
	Key       string
	UserID    string
	DeviceID  string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FromPayload builds an entry from a decoded JSON object. The "id" field becomes Key; userId and deviceId
// are lifted out of Data.
func FromPayload(payload map[string]any) (*Entry, error) {
	key := scalarString(payload[fieldKey])
	if key == "" {
		return nil, ErrKeyRequired
	}
	e := &Entry{
		Key:      key,
		UserID:   scalarString(payload[fieldUserID]),
		DeviceID: scalarString(payload[fieldDeviceID]),
		Data:     make(map[string]any, len(payload)),
	}
	for k, v := range payload {
		switch k {
		case fieldKey, fieldRecordID, fieldUserID, fieldDeviceID, fieldCreatedAt, fieldUpdatedAt:
			continue
		}
		e.Data[k] = v
	}
	return e, nil
}

// Merge overlays other's fields onto e. Empty owner fields in other keep e's values.
func (e *Entry) Merge(other *Entry) {
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	for k, v := range other.Data {
		e.Data[k] = v
	}
	if other.UserID != "" {
		e.UserID = other.UserID
	}
	if other.DeviceID != "" {
		e.DeviceID = other.DeviceID
	}
	e.UpdatedAt = other.UpdatedAt
}

// MarshalJSON flattens Data into the top-level object next to the reserved fields.
func (e *Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Data)+6)
	for k, v := range e.Data {
		out[k] = v
	}
	out[fieldRecordID] = e.ID
	out[fieldKey] = e.Key
	if e.UserID != "" {
		out[fieldUserID] = e.UserID
	}
	if e.DeviceID != "" {
		out[fieldDeviceID] = e.DeviceID
	}
	out[fieldCreatedAt] = e.CreatedAt
	out[fieldUpdatedAt] = e.UpdatedAt
	return json.Marshal(out)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
