// Package api provides the HTTP API for Alcoholemia.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/alcoholemia/alcoholemia/internal/api/handler"
	"github.com/alcoholemia/alcoholemia/internal/api/middleware"
	"github.com/alcoholemia/alcoholemia/internal/api/response"
	"github.com/alcoholemia/alcoholemia/internal/calculator"
	"github.com/alcoholemia/alcoholemia/internal/featureflags"
	"github.com/alcoholemia/alcoholemia/internal/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// RequireTLS rejects plain HTTP requests behind a load balancer.
	RequireTLS bool

	Calculator         *calculator.Service
	FeatureFlagService *featureflags.Service

	// AdminTokens validates admin bearer tokens. Nil disables admin access.
	AdminTokens middleware.TokenValidator

	// Registry and ReadinessChecks feed GET /v1/ops/ready. Both are optional.
	Registry        *resilience.Registry
	ReadinessChecks []handler.DependencyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "alcoholemia-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "resource not found")
	})

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.ReadinessChecks...)
	calculationHandler := handler.NewCalculationHandler(cfg.Calculator, cfg.Logger)
	metadataHandler := handler.NewMetadataHandler(cfg.Calculator.Catalog(), cfg.Calculator)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService, cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	calculationRateLimit := middleware.RateLimitByIP(middleware.CalculationRateLimit) // 60 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)       // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/drinks", metadataHandler.ListDrinks)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Calculations (public)
		r.With(calculationRateLimit, middleware.RequireJSON).Post("/calculations", calculationHandler.CreateCalculation)

		// Admin endpoints (authenticated) - operator-based rate limiting
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(middleware.AdminRateLimit))
			r.Use(middleware.AdminAuth(cfg.AdminTokens))
			r.Use(middleware.RateLimitByOperator(middleware.StandardRateLimit))

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.With(middleware.RequireJSON).Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
