package telemetry

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Event types emitted by the server.
const (
	EventHTTPRequest   = "http_request"
	EventMessageStored = "message_stored"
	EventDevicesSwept  = "devices_swept"
)

// Event is a single telemetry record. Metadata holds free-form attributes.
type Event struct {
	EventType string
	Source    string
	UserID    string
	DeviceID  string
	Metadata  *structpb.Struct
	CreatedAt *timestamppb.Timestamp
}

// NewEvent builds an event stamped with the current time. Metadata values must be
// JSON-compatible scalars, maps or slices; unsupported values return an error.
func NewEvent(eventType, source string, metadata map[string]any) (*Event, error) {
	e := &Event{EventType: eventType, Source: source, CreatedAt: timestamppb.Now()}
	if len(metadata) > 0 {
		s, err := structpb.NewStruct(metadata)
		if err != nil {
			return nil, fmt.Errorf("telemetry: metadata: %w", err)
		}
		e.Metadata = s
	}
	return e, nil
}

// Time returns the event time, or the zero time when unset.
func (e *Event) Time() time.Time {
	if e == nil || e.CreatedAt == nil {
		return time.Time{}
	}
	return e.CreatedAt.AsTime()
}

// Encode renders the event as a JSON object with camelCase keys (eventType, source,
// userId, deviceId, metadata, createdAt as RFC3339).
func (e *Event) Encode() ([]byte, error) {
	fields := map[string]*structpb.Value{
		"eventType": structpb.NewStringValue(e.EventType),
		"source":    structpb.NewStringValue(e.Source),
	}
	if e.UserID != "" {
		fields["userId"] = structpb.NewStringValue(e.UserID)
	}
	if e.DeviceID != "" {
		fields["deviceId"] = structpb.NewStringValue(e.DeviceID)
	}
	if e.Metadata != nil {
		fields["metadata"] = structpb.NewStructValue(e.Metadata)
	}
	if e.CreatedAt != nil {
		fields["createdAt"] = structpb.NewStringValue(e.CreatedAt.AsTime().UTC().Format(time.RFC3339Nano))
	}
	return protojson.Marshal(&structpb.Struct{Fields: fields})
}

// DecodeEvent parses JSON produced by Encode.
func DecodeEvent(raw []byte) (*Event, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("telemetry: decode: %w", err)
	}
	f := s.GetFields()
	e := &Event{
		EventType: f["eventType"].GetStringValue(),
		Source:    f["source"].GetStringValue(),
		UserID:    f["userId"].GetStringValue(),
		DeviceID:  f["deviceId"].GetStringValue(),
		Metadata:  f["metadata"].GetStructValue(),
	}
	if ts := f["createdAt"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("telemetry: createdAt: %w", err)
		}
		e.CreatedAt = timestamppb.New(t)
	}
	return e, nil
}
