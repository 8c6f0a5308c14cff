package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/elgranjm3000/previewInventario/internal/clients"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "inventario.Proxy"

const checkTimeout = 3 * time.Second

// HealthReporter mirrors upstream reachability into a gRPC health server.
type HealthReporter struct {
	server   *health.Server
	upstream clients.UpstreamClient
	interval time.Duration
	log      *logrus.Logger
}

func NewHealthReporter(upstream clients.UpstreamClient, interval time.Duration, logger *logrus.Logger) *HealthReporter {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthReporter{
		server:   srv,
		upstream: upstream,
		interval: interval,
		log:      logger,
	}
}

func (r *HealthReporter) HealthServer() *health.Server {
	return r.server
}

// Refresh checks the upstream once and publishes the result.
func (r *HealthReporter) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := r.upstream.Ping(ctx); err != nil {
		r.log.Warnf("gRPC Health: Upstream check failed: %v", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.server.SetServingStatus("", st)
	r.server.SetServingStatus(ServiceName, st)
	return st
}

// Run refreshes the status every interval until ctx is done, then marks
// every service NOT_SERVING.
func (r *HealthReporter) Run(ctx context.Context) error {
	r.Refresh(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.server.Shutdown()
			r.log.Info("gRPC Health: Reporter stopped")
			return nil
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// NewServer builds a gRPC server exposing the health service and reflection.
func NewServer(reporter *HealthReporter, logger *logrus.Logger) *grpc.Server {
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, reporter.HealthServer())
	reflection.Register(grpcServer)
	logger.Info("gRPC health and reflection services registered")
	return grpcServer
}
