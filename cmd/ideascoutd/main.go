package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/ideascout/internal/async"
	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/export"
	"github.com/joseph-ayodele/ideascout/internal/jobs"
	"github.com/joseph-ayodele/ideascout/internal/pipeline"
	svc "github.com/joseph-ayodele/ideascout/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ideascoutd exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := common.LoadConfig(getenv("ENV_FILE", ".env"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobRepo, closeRepo, err := svc.OpenJobRepository(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open %s job store: %w", cfg.Store.Backend, err)
	}
	defer closeRepo()

	var lis net.Listener
	if cfg.Server.GRPCAddr != "" {
		lis, err = net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.GRPCAddr, err)
		}
	}

	processor := pipeline.NewFromConfig(cfg, logger)
	manager := jobs.NewManager(jobRepo, processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithProcessTimeout(cfg.Queue.JobTimeout),
	)
	exporter := export.NewService(manager, logger)

	// HTTP
	e := svc.NewHTTPServer(manager, exporter, logger)
	go func() {
		logger.Info("ideascout http listening", "addr", cfg.Server.HTTPAddr)
		if err := e.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			stop()
		}
	}()

	// gRPC
	var grpcServer *grpc.Server
	if lis != nil {
		grpcServer = grpc.NewServer()
		svc.RegisterResearchServiceServer(grpcServer, svc.NewResearchServer(manager, logger))

		healthServer := health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

		go func() {
			logger.Info("ideascout grpc listening", "addr", cfg.Server.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC serve error", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logger.Warn("job manager shutdown", "error", err)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
