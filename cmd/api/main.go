package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/booksite-platform/internal/api/router"
	"github.com/wolfman30/booksite-platform/internal/app/bootstrap"
	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/catalog"
	appconfig "github.com/wolfman30/booksite-platform/internal/config"
	"github.com/wolfman30/booksite-platform/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/booksite-platform/internal/http/middleware"
	"github.com/wolfman30/booksite-platform/internal/storeconfig"
	"github.com/wolfman30/booksite-platform/internal/wizard"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booksite API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsHandler, reg := setupMetrics()
	rt, err := bootstrap.BuildRuntime(ctx, cfg, reg, logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx.Done())
	go rt.Wizards.Run(ctx, time.Minute)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      buildHandler(cfg, rt, metricsHandler, limiter, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics creates the process registry with the Go and process
// collectors and the handler that exposes it.
func setupMetrics() (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), reg
}

func buildHandler(cfg *appconfig.Config, rt *bootstrap.Runtime, metricsHandler http.Handler, limiter *httpmiddleware.RateLimiter, logger *logging.Logger) http.Handler {
	cors := httpmiddleware.CORSOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedHeaders: cfg.CORSAllowedHeaders,
		MaxAge:         cfg.CORSMaxAge,
	}
	routerCfg := &router.Config{
		Logger:            logger,
		Availability:      handlers.NewAvailabilityHandler(rt.Configs, rt.Ledger, nil, rt.Metrics, logger),
		Storefront:        handlers.NewStorefrontHandler(rt.Catalog, rt.Configs, logger),
		Wizard:            wizard.NewHandler(rt.Wizards, logger),
		CatalogAdmin:      catalog.NewHandler(rt.Catalog, logger),
		AppointmentsAdmin: appointments.NewHandler(rt.Ledger, logger),
		AdminAuthSecret:   cfg.AdminJWTSecret,
		MetricsHandler:    metricsHandler,
		CORS:              cors,
		RateLimiter:       limiter,
	}
	if rt.ConfigStore != nil {
		routerCfg.StoreConfigAdmin = storeconfig.NewHandler(rt.ConfigStore, logger)
	}
	if rt.Pool != nil {
		routerCfg.ReadinessCheck = rt.Pool.Ping
	}
	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set; admin routes disabled")
	}
	return router.New(routerCfg)
}
