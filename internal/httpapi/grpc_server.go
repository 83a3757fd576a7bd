package httpapi

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"expensa.org/internal/obs"
)

// GRPCServer exposes the standard gRPC health service so orchestration
// checks the same readiness the HTTP /readyz reports.
type GRPCServer struct {
	srv    *grpc.Server
	health *health.Server

	readiness readinessChecker
}

// NewGRPCServer creates the gRPC service wrapper.
func NewGRPCServer(r readinessChecker) *GRPCServer {
	srv := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(srv, h)
	return &GRPCServer{
		srv:       srv,
		health:    h,
		readiness: r,
	}
}

// Serve runs the gRPC listener and keeps the reported health status in
// sync with the readiness probe until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	go s.watch(ctx)
	go func() {
		<-ctx.Done()
		s.srv.GracefulStop()
	}()
	return s.srv.Serve(lis)
}

func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	s.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *GRPCServer) refresh(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	ready := true
	if s.readiness != nil {
		if err := s.readiness.Check(checkCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			ready = false
		}
	}
	s.health.SetServingStatus("", status)
	obs.SetReady(ready)
}
