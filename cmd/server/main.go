// Package main is the entry point for the stock watch server.
//
// Startup sequence:
//  1. Load configuration from environment variables (.env supported)
//  2. Initialize logging
//  3. Wire all services via the DI container
//  4. Start the HTTP server, the scheduler and background watchlist seeding
//  5. Wait for a shutdown signal and stop gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/stockwatch/internal/config"
	"github.com/aristath/stockwatch/internal/di"
	"github.com/aristath/stockwatch/internal/server"
	"github.com/aristath/stockwatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting stock watch")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Cancelled on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seeding fetches each symbol with request spacing, so it runs in the
	// background while the API is already serving
	seedDone := make(chan struct{})
	go func() {
		defer close(seedDone)
		if err := container.Scheduler.RunNow(ctx, jobs.WatchlistSeed); err != nil {
			log.Warn().Err(err).Msg("Watchlist seeding interrupted")
		}
	}()

	container.Scheduler.Start()

	<-ctx.Done()
	stop()

	log.Info().Msg("Shutting down server...")

	// Waits for a running refresh batch to finish
	container.Scheduler.Stop()
	<-seedDone

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
