package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/alcoholemia/alcoholemia/internal/api/models"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// Requests per window
	RequestLimit int
	// Window duration
	WindowLength time.Duration
}

// Default rate limit configurations.
var (
	// AdminRateLimit applies to the admin endpoints (10 req/min).
	AdminRateLimit = RateLimitConfig{
		RequestLimit: 10,
		WindowLength: time.Minute,
	}

	// CalculationRateLimit applies to POST /v1/calculations (60 req/min).
	CalculationRateLimit = RateLimitConfig{
		RequestLimit: 60,
		WindowLength: time.Minute,
	}

	// StandardRateLimit applies to standard endpoints (100 req/min).
	StandardRateLimit = RateLimitConfig{
		RequestLimit: 100,
		WindowLength: time.Minute,
	}
)

// RateLimitByIP limits requests per client IP as resolved by chi's RealIP.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return cfg.limiter(httprate.KeyByRealIP)
}

// RateLimitByOperator limits admin requests per authenticated operator.
// Must run after AdminAuth; requests without an operator are keyed by IP.
func RateLimitByOperator(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return cfg.limiter(keyByOperatorOrIP)
}

func keyByOperatorOrIP(r *http.Request) (string, error) {
	if operator := GetOperator(r.Context()); operator != "" {
		return "operator:" + operator, nil
	}
	return httprate.KeyByRealIP(r)
}

func (cfg RateLimitConfig) limiter(key httprate.KeyFunc) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowLength,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(cfg.exceeded),
	)
}

// exceeded answers 429 with a problem naming the limit. Retry-After is the
// full window because httprate does not expose the reset time.
func (cfg RateLimitConfig) exceeded(w http.ResponseWriter, r *http.Request) {
	Annotate(r.Context(), LogOutcome, "rate_limited")

	retryAfter := int(math.Ceil(cfg.WindowLength.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	detail := fmt.Sprintf("Rate limit exceeded: %d requests per %s. Please try again later.",
		cfg.RequestLimit, cfg.WindowLength)
	models.NewTooManyRequests(GetRequestID(r.Context()), detail).
		WithInstance(r.URL.Path).
		Write(w)
}
