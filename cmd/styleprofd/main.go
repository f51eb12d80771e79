// Styleprofd is a design-pattern aggregation daemon.
//
// It accepts HTML documents over HTTP, extracts recurring design attributes
// (colors, typography, spacing, component styles) from their CSS, and
// maintains an in-memory aggregate profile used to keep generated designs
// consistent with previously analyzed work.
//
// Configuration comes from a YAML file and environment variables. See
// internal/config for details.
//
// Usage:
//
//	# Start with defaults (~/.config/styleprofd/config.yaml if present)
//	styleprofd
//
//	# Explicit config file
//	styleprofd -config /etc/styleprofd/config.yaml
//
//	# Configure via environment
//	SERVER_HTTP_PORT=9460 styleprofd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/inkwelllabs/styleprofd/internal/config"
	"github.com/inkwelllabs/styleprofd/internal/generate"
	httpserver "github.com/inkwelllabs/styleprofd/internal/http"
	"github.com/inkwelllabs/styleprofd/internal/logging"
	"github.com/inkwelllabs/styleprofd/internal/profile"
	"github.com/inkwelllabs/styleprofd/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  styleprofd           Start the styleprofd daemon\n")
			fmt.Fprintf(os.Stderr, "  styleprofd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("styleprofd by Inkwell Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the styleprofd server and blocks until the context is cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize logger and telemetry
//  3. Create the profile store and generation service
//  4. Start the HTTP server
//  5. Graceful shutdown on context cancellation
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("Starting styleprofd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown incomplete", zap.Error(err))
		}
	}()
	if tel.Degraded() {
		logger.Warn("telemetry export degraded; continuing with no-op providers")
	}

	store := profile.NewStore(logger.Named("profile"))

	gen, err := generate.NewService(cfg.Generation, store, logger.Named("generate"))
	if err != nil {
		return fmt.Errorf("failed to initialize generation service: %w", err)
	}
	if !gen.Available() {
		logger.Info("no generation API key configured; /api/v1/generate disabled")
	}

	srv, err := httpserver.NewServer(store, gen, logger.Named("http"), &httpserver.Config{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		MaxBodyKB:     cfg.Upload.MaxBodyKB,
		RatePerSecond: cfg.Upload.RatePerSecond,
		RateBurst:     cfg.Upload.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)),
		zap.String("metrics_endpoint", "/metrics"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
