package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/roundbuy/backend-sub000/internal/app/background"
	"github.com/roundbuy/backend-sub000/internal/app/setup"
	"github.com/roundbuy/backend-sub000/internal/config"
	"github.com/roundbuy/backend-sub000/internal/delivery/grpcapi"
	"github.com/roundbuy/backend-sub000/internal/delivery/http/handlers"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger, logCloser, err := logger.Setup(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("dispute service stopped with error", "error", err.Error())
		os.Exit(1)
	}
	appLogger.Info("dispute service stopped")
}

func run(ctx context.Context, cfg *config.DisputeConfig, appLogger *slog.Logger) error {
	deps, err := setup.InitializeDependencies(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("init dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			appLogger.Warn("failed to close dependencies", "error", err.Error())
		}
	}()

	uc := setup.InitializeUseCases(deps)

	// Creating gRPC server
	disputeHandler := grpcapi.NewDisputeHandler(uc.IssueUsecase, uc.DisputeUsecase, uc.ClaimUsecase, uc.EscalationUsecase)
	grpcServer, healthServer := grpcapi.NewServer(appLogger, disputeHandler)
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	checks := map[string]handlers.ReadinessCheck{}
	if deps.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}
	opsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           handlers.NewOpsRouter(handlers.NewOpsHandler(uc.Sweeper, checks, appLogger), deps.Registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	tasks := background.NewBackgroundTasks(uc.Sweeper, cfg.Sweeper.Interval, appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("grpc server listening", "addr", lis.Addr().String())
		grpcapi.MarkServing(healthServer)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		appLogger.Info("ops http server listening", "addr", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return tasks.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcServer.GracefulStop()
		return opsServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
