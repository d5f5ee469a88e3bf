// Package grpc serves the booking operations over gRPC with a JSON codec.
package grpc

import (
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Options struct {
	RequestTimeout time.Duration
}

// NewServer returns a gRPC server with the booking and health services
// registered. The health server is returned so callers can flip it to
// NOT_SERVING during shutdown.
func NewServer(svc bookingService, creds CredentialStore, log *slog.Logger, opts Options) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RequestTimeoutInterceptor(opts.RequestTimeout),
			AuthInterceptor(creds),
		),
	)
	RegisterBookingServiceServer(s, NewBookingServer(svc, log))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(BookingServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s, hs
}
