package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/matrixdiff/internal/config"
	"github.com/JonMunkholm/matrixdiff/internal/core"
	_ "github.com/JonMunkholm/matrixdiff/internal/core/formats" // Register SSD formats
	"github.com/JonMunkholm/matrixdiff/internal/logging"
	"github.com/JonMunkholm/matrixdiff/internal/store"
	"github.com/JonMunkholm/matrixdiff/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_driver", cfg.Store.Driver,
		"max_sessions", cfg.Session.MaxSessions,
		"upload_max_file_size", cfg.Upload.MaxFileSize.String(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Open the selection store
	ctx := context.Background()
	kv, err := store.Open(ctx, store.Options{
		Driver:   cfg.Store.Driver,
		DSN:      cfg.Store.DSN,
		Timeout:  cfg.Store.Timeout,
		MaxConns: cfg.Store.MaxConns,
	})
	if err != nil {
		slog.Error("failed to open selection store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	slog.Info("selection store ready", "driver", cfg.Store.Driver)

	service, err := core.NewService(core.ServiceOptions{
		MaxSessions:     cfg.Session.MaxSessions,
		PreferredMatrix: cfg.Matrix.PreferredOID,
		Store:           kv,
		SelectionKey:    cfg.Store.SelectionKey,

		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		UploadWait:           cfg.Upload.MaxWait,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// Log registered SSD formats
	for _, f := range service.Formats() {
		slog.Debug("ssd format registered", "key", f.Key, "extensions", f.Extensions)
	}

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	if cfg.Session.IdleTimeout > 0 {
		go service.StartSessionSweeper(jobCtx, core.SweepConfig{
			IdleTimeout: cfg.Session.IdleTimeout,
			Interval:    cfg.Session.SweepInterval,
		})
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active uploads to complete (with timeout)
		if status := service.UploadLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		return
	}
	<-done
	slog.Info("server stopped")
}
