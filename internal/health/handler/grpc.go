package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"sms-gateway/backend/internal/health"
)

// ServiceName is the gRPC health service name reported for the gateway besides the overall "" service.
const ServiceName = "smsgw.Gateway"

// GRPC implements grpc.health.v1.Health from the same readiness checks as /readyz.
type GRPC struct {
	healthpb.UnimplementedHealthServer
	checker *health.Checker
}

// NewGRPC returns a gRPC health server.
func NewGRPC(checker *health.Checker) *GRPC {
	return &GRPC{checker: checker}
}

// Check returns SERVING when every dependency check passes and NOT_SERVING otherwise.
func (s *GRPC) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", ServiceName:
	default:
		return nil, status.Error(codes.NotFound, "unknown service")
	}
	if err := s.checker.Ready(ctx); err != nil {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
