package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/fanbet/internal/app"
	"github.com/riskibarqy/fanbet/internal/config"
	"github.com/riskibarqy/fanbet/internal/observability"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	telemetry, err := observability.Setup(cfg, logger)
	if err != nil {
		logger.Error("setup telemetry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	if application.Scheduler != nil {
		if err := application.Scheduler.Start(ctx); err != nil {
			logger.Error("start cycle scheduler", "error", err)
			os.Exit(1)
		}
	}

	srv := application.Server
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if application.Scheduler != nil {
		if err := application.Scheduler.Stop(shutdownCtx); err != nil {
			logger.Warn("cycle scheduler stop", "error", err)
		}
	}
	if err := application.Close(); err != nil {
		logger.Warn("close app", "error", err)
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown telemetry", "error", err)
	}

	logger.Info("http server stopped")
	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
}
