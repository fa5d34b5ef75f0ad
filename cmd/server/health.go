package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rezkam/newsdesk/internal/config"
)

// healthServer serves grpc.health.v1 for orchestrators.
type healthServer struct {
	server   *grpc.Server
	status   *health.Server
	listener net.Listener
}

// newHealthServer listens on the configured port. An empty port disables it
// and returns nil.
func newHealthServer(cfg config.GRPCConfig) (*healthServer, error) {
	if cfg.Port == "" {
		return nil, nil
	}

	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for gRPC health: %w", err)
	}

	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	status := health.NewServer()
	status.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, status)

	return &healthServer{server: s, status: status, listener: lis}, nil
}

// Addr returns the bound address.
func (h *healthServer) Addr() string {
	return h.listener.Addr().String()
}

// Serve blocks until Stop.
func (h *healthServer) Serve() error {
	slog.Info("gRPC health server listening", slog.String("addr", h.Addr()))
	if err := h.server.Serve(h.listener); err != nil {
		return fmt.Errorf("failed to serve gRPC health: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING, then stops gracefully or forcibly once ctx expires.
func (h *healthServer) Stop(ctx context.Context) {
	h.status.Shutdown()

	done := make(chan struct{})
	go func() {
		h.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		slog.InfoContext(ctx, "gRPC health server shutdown complete")
	case <-ctx.Done():
		slog.WarnContext(ctx, "gRPC health server shutdown timed out, forcing stop")
		h.server.Stop()
	}
}
