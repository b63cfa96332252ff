package server

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	healthhandler "sms-gateway/backend/internal/health/handler"
)

// NewGRPCServer returns a gRPC server exposing grpc.health.v1.Health, instrumented with OpenTelemetry.
func NewGRPCServer(health *healthhandler.GRPC) *grpc.Server {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(loggingUnary),
	)
	RegisterServices(s, health)
	return s
}

// RegisterServices registers every gRPC service on s.
func RegisterServices(s grpc.ServiceRegistrar, health *healthhandler.GRPC) {
	healthpb.RegisterHealthServer(s, health)
}

// loggingUnary logs failed RPCs; successful ones are logged at debug level.
func loggingUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := log.WithFields(log.Fields{
		"method":      info.FullMethod,
		"code":        status.Code(err).String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("grpc request")
	} else {
		entry.Debug("grpc request")
	}
	return resp, err
}
