package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/bootstrap"
	"github.com/chris/coin-rewards-ledger/pkg/config"
	"github.com/chris/coin-rewards-ledger/pkg/handlers"
	"github.com/chris/coin-rewards-ledger/pkg/metrics"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	logger := bootstrap.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledgerMetrics := metrics.LedgerMetrics()
	deps, err := bootstrap.Build(ctx, cfg, logger, ledgerMetrics)
	if err != nil {
		logger.Error("failed to initialise dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	router := handlers.NewRouter(handlers.Options{
		Service: deps.Service,
		Auth:    middleware.NewAuthenticator(cfg.JWTSecret),
		Limiter: middleware.NewRateLimiter(cfg.Policy.RatePerMinute, cfg.Policy.RateBurst, ledgerMetrics),
		Logger:  logger,
		Metrics: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
