package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"medbook/backend/internal/auth"
	"medbook/backend/internal/domain"
)

// CredentialStore resolves a bearer token to the caller behind it.
type CredentialStore interface {
	Verify(ctx context.Context, token string) (domain.Actor, error)
}

// RequestTimeoutInterceptor applies timeout to calls that arrive without a
// deadline of their own.
func RequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

var publicMethods = map[string]bool{
	GetPractitionerMethod: true,
	GetAvailabilityMethod: true,
}

// AuthInterceptor requires a bearer token on every booking RPC except
// GetPractitioner and GetAvailability. Other services, health included,
// pass through.
func AuthInterceptor(creds CredentialStore) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, "/"+BookingServiceName+"/") || publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		token, err := auth.BearerToken(authorization(ctx))
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		actor, err := creds.Verify(ctx, token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid bearer token")
		}
		return handler(auth.WithActor(ctx, actor), req)
	}
}

func authorization(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
