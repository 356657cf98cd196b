// Package main provides the entrypoint for the Alcoholemia API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/alcoholemia/alcoholemia/internal/api"
	"github.com/alcoholemia/alcoholemia/internal/api/handler"
	"github.com/alcoholemia/alcoholemia/internal/api/middleware"
	"github.com/alcoholemia/alcoholemia/internal/auth"
	"github.com/alcoholemia/alcoholemia/internal/bac"
	"github.com/alcoholemia/alcoholemia/internal/calculator"
	"github.com/alcoholemia/alcoholemia/internal/database"
	"github.com/alcoholemia/alcoholemia/internal/featureflags"
	"github.com/alcoholemia/alcoholemia/internal/resilience"
	"github.com/alcoholemia/alcoholemia/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Token claims shared with cmd/admin-token.
const (
	tokenIssuer   = "alcoholemia-api"
	tokenAudience = "alcoholemia-admin"
)

func main() {
	const serviceName = "alcoholemia-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Alcoholemia API")

	cfg, notes, err := loadConfig()
	for _, note := range notes {
		log.Info().Msg(note)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryCfg := telemetry.ConfigFromEnv(serviceName, Version, cfg.Env)

	tp, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryCfg.Enabled {
		log.Info().
			Str("otlp_endpoint", telemetryCfg.OTLPEndpoint).
			Float64("sample_ratio", telemetryCfg.SampleRatio).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Initialize feature flags repository and service
	registry := resilience.NewRegistry()
	ffRepo, checks, closeStore, err := openFlagRepository(ctx, cfg, registry, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.FlagsBackend).Msg("failed to open feature flag store")
	}
	defer closeStore()

	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   ffRepo,
		Logger:       log,
		CacheTTL:     cfg.FlagsCacheTTL,
		DefaultFlags: featureflags.DefaultFlagsWithEdition(cfg.DefaultEdition),
	})
	log.Info().
		Str("backend", cfg.FlagsBackend).
		Str("default_edition", string(cfg.DefaultEdition)).
		Msg("feature flags service initialized")

	calc, err := calculator.NewService(calculator.Config{
		Catalog:        bac.DefaultCatalog(),
		Flags:          ffService,
		DefaultEdition: cfg.DefaultEdition,
		Logger:         log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize calculator")
	}

	// Admin tokens are optional; without a key the admin endpoints answer 401
	var adminTokens middleware.TokenValidator
	if cfg.JWTSigningKey != "" {
		jwtService, jwtErr := auth.NewJWTService(auth.JWTConfig{
			SigningKey: cfg.JWTSigningKey,
			Issuer:     tokenIssuer,
			Audience:   tokenAudience,
		})
		if jwtErr != nil {
			log.Fatal().Err(jwtErr).Msg("failed to initialize JWT service")
		}
		adminTokens = jwtService
	} else {
		log.Warn().Msg("JWT_SIGNING_KEY not set - admin endpoints disabled")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		RequireTLS:         cfg.RequireTLS,
		Calculator:         calc,
		FeatureFlagService: ffService,
		AdminTokens:        adminTokens,
		Registry:           registry,
		ReadinessChecks:    checks,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

// openFlagRepository connects the configured flag store. Remote stores are
// wrapped in a circuit breaker registered with registry.
func openFlagRepository(
	ctx context.Context,
	cfg config,
	registry *resilience.Registry,
	log zerolog.Logger,
) (featureflags.Repository, []handler.DependencyCheck, func(), error) {
	retry := resilience.DefaultRetryConfig()
	breaker := func(name string, repo featureflags.Repository) featureflags.Repository {
		return featureflags.NewBreakerRepository(repo, featureflags.BreakerConfig{
			Name:     name,
			Registry: registry,
			Logger:   log,
		})
	}

	switch cfg.FlagsBackend {
	case backendPostgres:
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig, retry, log)
		if err != nil {
			return nil, nil, nil, err
		}
		repo := featureflags.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
		checks := []handler.DependencyCheck{{Name: "postgres", Ping: pool.Ping}}
		return breaker("feature-flags-postgres", repo), checks, pool.Close, nil

	case backendRedis:
		redisConfig := database.RedisConfigFromEnv()
		client, err := database.ConnectRedis(ctx, redisConfig, retry, log)
		if err != nil {
			return nil, nil, nil, err
		}
		repo, err := featureflags.NewRedisRepository(ctx, &featureflags.RedisConfig{RedisClient: client})
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		log.Info().Str("addr", redisConfig.Addr).Msg("redis connected")
		checks := []handler.DependencyCheck{{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}}
		return breaker("feature-flags-redis", repo), checks, func() { _ = client.Close() }, nil

	default:
		return featureflags.NewInMemoryRepository(), nil, func() {}, nil
	}
}
