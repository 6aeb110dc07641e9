package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/userhub/internal/app"
	"github.com/allisson/userhub/internal/config"
)

// RunServer starts the API and metrics servers with graceful shutdown
// support. Blocks until receiving SIGINT/SIGTERM or a fatal server error.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return server.Start(groupCtx)
	})

	if metricsServer != nil {
		group.Go(func() error {
			return metricsServer.Start(groupCtx)
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		var shutdownErr error
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("api server shutdown: %w", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil && shutdownErr == nil {
				shutdownErr = fmt.Errorf("metrics server shutdown: %w", err)
			}
		}
		return shutdownErr
	})

	return group.Wait()
}
