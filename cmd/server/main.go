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
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/leadboard/internal/config"
	"github.com/JonMunkholm/leadboard/internal/core"
	"github.com/JonMunkholm/leadboard/internal/logging"
	"github.com/JonMunkholm/leadboard/internal/upstream"
	"github.com/JonMunkholm/leadboard/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	client, err := upstream.New(cfg.Upstream.URL, cfg.Upstream.CSVPath, cfg.Upstream.Timeout)
	if err != nil {
		slog.Error("failed to create upstream client", "error", err)
		os.Exit(1)
	}

	service := core.NewService(client, core.Options{
		RedactColumns: cfg.Leads.RedactColumns,
		Rules:         cfg.Rules,
		MaxFileSize:   cfg.Upload.MaxFileSize,
		LoadTimeout:   cfg.Upload.Timeout,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Logger:        logger,
	})

	server := web.NewServer(cfg, service, client)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Leads.LoadOnStart && cfg.Leads.File == "" {
		go func() {
			if _, err := service.Refresh(ctx); err != nil && !core.IsSuperseded(err) {
				slog.Warn("initial refresh failed", "error", err, "code", core.MapError(err).Code)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return core.NewRefreshScheduler(service, cfg.Refresh.Interval, logger).Run(gctx)
	})

	if cfg.Leads.File != "" {
		g.Go(func() error {
			return core.NewFileWatcher(service, cfg.Leads.File, logger).Run(gctx)
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Wait for loads still running to finish (with timeout)
		if st := service.Limiter().Status(); st.Active > 0 {
			slog.Info("waiting for loads to complete", "active", st.Active)
			if err := service.Limiter().WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("loads did not complete in time", "error", err)
			} else {
				slog.Info("all loads completed")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
