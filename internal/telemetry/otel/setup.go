// Package otel exports the smsgw server's telemetry over OTLP/gRPC: spans and RPC metrics recorded by the
// otelgrpc handler on the health server, and one log record per gateway event (http_request,
// message_stored, devices_swept) written by EventEmitter.
package otel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// metricExportInterval is how often RPC metrics are pushed to the collector.
const metricExportInterval = 10 * time.Second

// Providers are the smsgw signal pipelines. Tracer and meter feed otelgrpc once SetGlobal is called;
// LoggerProvider carries gateway events.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	// Enabled is false when OTLP_ENDPOINT is unset. The server then skips the OTel event emitter.
	Enabled  bool
	Shutdown func(context.Context) error
}

// NewProviders dials the collector at endpoint (host:port or URL, path ignored) and tags every signal with
// service.name. An empty endpoint yields local providers that record nothing.
// TLS is used for https endpoints unless insecureOverride is set.
func NewProviders(ctx context.Context, endpoint, serviceName string, insecureOverride bool) (*Providers, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return &Providers{
			TracerProvider: sdktrace.NewTracerProvider(),
			MeterProvider:  metric.NewMeterProvider(),
			LoggerProvider: sdklog.NewLoggerProvider(),
			Shutdown:       func(context.Context) error { return nil },
		}, nil
	}

	target, insecure, err := parseEndpoint(endpoint, insecureOverride)
	if err != nil {
		return nil, err
	}
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, err
	}

	p := &Providers{Enabled: true}
	var closers []func(context.Context) error
	closeAll := func(ctx context.Context) error {
		var lastErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](ctx); err != nil {
				log.WithError(err).Warn("otel: shutdown")
				lastErr = err
			}
		}
		return lastErr
	}
	fail := func(signal string, err error) (*Providers, error) {
		_ = closeAll(ctx)
		return nil, fmt.Errorf("otel %s exporter: %w", signal, err)
	}

	spans, err := otlptracegrpc.New(ctx, traceOptions(target, insecure)...)
	if err != nil {
		return fail("trace", err)
	}
	p.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(spans), sdktrace.WithResource(res))
	closers = append(closers, p.TracerProvider.Shutdown)

	rpcMetrics, err := otlpmetricgrpc.New(ctx, metricOptions(target, insecure)...)
	if err != nil {
		return fail("metric", err)
	}
	reader := metric.NewPeriodicReader(rpcMetrics, metric.WithInterval(metricExportInterval))
	p.MeterProvider = metric.NewMeterProvider(metric.WithReader(reader), metric.WithResource(res))
	closers = append(closers, p.MeterProvider.Shutdown)

	events, err := otlploggrpc.New(ctx, logOptions(target, insecure)...)
	if err != nil {
		return fail("log", err)
	}
	p.LoggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(events)),
		sdklog.WithResource(res),
	)
	closers = append(closers, p.LoggerProvider.Shutdown)

	p.Shutdown = closeAll
	return p, nil
}

func serviceResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String(serviceName)),
	)
}

func traceOptions(target string, insecure bool) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(target)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return opts
}

func metricOptions(target string, insecure bool) []otlpmetricgrpc.Option {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(target)}
	if insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	return opts
}

func logOptions(target string, insecure bool) []otlploggrpc.Option {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(target)}
	if insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	return opts
}

// parseEndpoint reduces OTLP_ENDPOINT to the host:port the gRPC exporters dial.
// Plain host:port and http:// endpoints are dialed without TLS.
func parseEndpoint(endpoint string, insecureOverride bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid OTLP endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid OTLP endpoint %q: missing host", endpoint)
	}
	return u.Host, insecureOverride || u.Scheme != "https", nil
}

// SetGlobal installs the tracer and meter providers picked up by the gRPC health server's otelgrpc handler.
// Gateway events go through NewEventEmitter(p.LoggerProvider) instead of a global logger provider.
func (p *Providers) SetGlobal() {
	if p.TracerProvider != nil {
		otel.SetTracerProvider(p.TracerProvider)
	}
	if p.MeterProvider != nil {
		otel.SetMeterProvider(p.MeterProvider)
	}
}
