package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/salwynchristopher/portfolio/internal/app"
	"github.com/salwynchristopher/portfolio/internal/telemetry"
	"github.com/salwynchristopher/portfolio/internal/version"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Close()

		logger.Info("Starting portfolio contact service %s in %s mode", version.Version, cfg.Environment)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := telemetry.Init(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Environment)
		if err != nil {
			logger.Error("Failed to initialize tracing: %v", err)
			return err
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("Tracer shutdown: %v", err)
			}
		}()

		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize: %v", err)
			return err
		}
		defer a.Close()

		if err := a.Run(ctx); err != nil {
			logger.Error("Server stopped with error: %v", err)
			return err
		}

		logger.Info("Server exited")
		return nil
	},
}
