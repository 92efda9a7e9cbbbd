package grpcserver

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"reliefCoordination/internal/auth"
	"reliefCoordination/internal/config"
	"reliefCoordination/internal/metrics"
	"reliefCoordination/internal/relief"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// Deps are the collaborators shared by every service implementation.
type Deps struct {
	Service *relief.Service
	Users   auth.UserDirectory
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewServer builds a gRPC server with the Rescuer, Citizen, Admin and health
// services registered. Calls pass through the logging interceptor first and
// then the JWT interceptor; only the health check is unauthenticated.
func NewServer(secret string, d Deps) *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		NewUnaryLoggingInterceptor(d.Logger, d.Metrics),
		auth.NewUnaryAuthInterceptor(secret, healthCheckMethod),
	))

	srv.RegisterService(&RescuerServiceDesc, &RescuerServer{Svc: d.Service, Users: d.Users})
	srv.RegisterService(&CitizenServiceDesc, &CitizenServer{Svc: d.Service, Users: d.Users})
	srv.RegisterService(&AdminServiceDesc, &AdminServer{Svc: d.Service, Users: d.Users})

	hs := health.NewServer()
	for _, name := range []string{"", RescuerServiceName, CitizenServiceName, AdminServiceName} {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC starts the gRPC server on the configured address and returns a shutdown function.
func StartGRPC(cfg *config.Config, d Deps) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	// Plaintext; terminate TLS in front of the service.
	srv := NewServer(cfg.Auth.JWTSecret, d)
	go func() { _ = srv.Serve(lis) }()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
