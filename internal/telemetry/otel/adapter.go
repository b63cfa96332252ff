package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"sms-gateway/backend/internal/telemetry"
)

// recordEmitter is the subset of otellog.Logger used by the adapter.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return NewEventEmitterWithLogger(provider.Logger("smsgw.telemetry"))
}

// NewEventEmitterWithLogger wraps any record emitter (an otellog.Logger or a test capture).
func NewEventEmitterWithLogger(l recordEmitter) telemetry.EventEmitter {
	return &otelEmitter{logger: l}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *telemetry.Event) error { return nil }

type otelEmitter struct {
	logger recordEmitter
}

// Emit converts the event to an OTel log record. The body carries the metadata as JSON.
func (e *otelEmitter) Emit(ctx context.Context, event *telemetry.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if t := event.Time(); !t.IsZero() && t.Unix() > 0 {
		rec.SetTimestamp(t)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	if event.Metadata != nil && len(event.Metadata.GetFields()) > 0 {
		body, err := event.Metadata.MarshalJSON()
		if err != nil {
			return err
		}
		rec.SetBody(otellog.BytesValue(body))
	}
	add := func(key, val string) {
		if val != "" {
			rec.AddAttributes(otellog.String(key, val))
		}
	}
	add("user_id", event.UserID)
	add("device_id", event.DeviceID)
	add("event_type", event.EventType)
	add("source", event.Source)
	e.logger.Emit(ctx, rec)
	return nil
}
