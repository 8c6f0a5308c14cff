package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/elgranjm3000/previewInventario/api"
	"github.com/elgranjm3000/previewInventario/config"
	"github.com/elgranjm3000/previewInventario/internal/clients"
	grpcdelivery "github.com/elgranjm3000/previewInventario/internal/delivery/grpc"
	"github.com/elgranjm3000/previewInventario/internal/facade"
	"github.com/elgranjm3000/previewInventario/internal/inventory"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(cfg.Level())
	if cfg.Level() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Starting inventario proxy...")

	if _, err := api.LoadSpec(context.Background()); err != nil {
		logger.Fatalf("Embedded API description is broken: %v", err)
	}

	upstream := clients.NewUpstreamHTTPClient(cfg.APIBaseURL, cfg.APIToken, cfg.UpstreamTimeout, logger)
	dashboard := inventory.NewDashboard(facade.NewClient(cfg.FacadeBaseURL, &http.Client{}, logger), logger)
	logger.Infof("Upstream API target: %s", cfg.APIBaseURL)

	httpServer := &http.Server{
		Addr:    cfg.Port,
		Handler: newRouter(cfg, upstream, dashboard, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("HTTP server listening on %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Warn("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.GrpcHealthPort != "" {
		lis, err := net.Listen("tcp", cfg.GrpcHealthPort)
		if err != nil {
			logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcHealthPort, err)
		}
		reporter := grpcdelivery.NewHealthReporter(upstream, cfg.HealthInterval, logger)
		grpcServer := grpcdelivery.NewServer(reporter, logger)

		g.Go(func() error {
			return reporter.Run(gctx)
		})
		g.Go(func() error {
			logger.Infof("gRPC health server listening on %s", cfg.GrpcHealthPort)
			return grpcServer.Serve(lis)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Attempting graceful shutdown of gRPC server...")
			grpcServer.GracefulStop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Errorf("Server stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info("Inventario proxy shut down gracefully.")
}
