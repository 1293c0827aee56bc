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

	"fairsplit/config"
	httpHandler "fairsplit/internal/adapter/http/handler"
	"fairsplit/internal/adapter/storage"
	"fairsplit/internal/core/ports"
	"fairsplit/internal/service"
	"fairsplit/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting fairsplit API")

	ctx := context.Background()

	// PostgreSQL and Redis when enabled, in-process stores otherwise
	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer stores.Close()

	// Initialize core services
	policy := cfg.Splitter.Policy()
	splitSvc := service.NewSplitService(policy)
	harnessSvc := service.NewHarnessService(splitSvc, policy, logger.Component(log, "harness"))
	reportSvc := service.NewReportService(
		harnessSvc,
		policy,
		stores.Reports,
		stores.Cache,
		stores.Transactor,
		cfg.Redis.ReportTTL,
		logger.Component(log, "reports"),
	)

	runDefaults := cfg.Harness.RunDefaults()
	if err := runDefaults.WithDefaults().Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid harness configuration")
	}

	var tokenSvc ports.TokenService
	if cfg.JWT.Secret != "" {
		tokenSvc = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	} else {
		log.Warn().Msg("jwt.secret is empty, run endpoints are unauthenticated")
	}

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Splitter:       splitSvc,
		ReportSvc:      reportSvc,
		HarnessSvc:     harnessSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: stores.RateLimit,
		HealthCheckers: stores.HealthCheckers,
		RunDefaults:    runDefaults,
		MaxTrials:      cfg.Harness.MaxTrials,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// In-flight runs get the shrink budget on top.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second+cfg.Harness.ShrinkTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
