package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

// Flag store backends selectable with FLAGS_BACKEND.
const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendRedis    = "redis"
)

// config is the process configuration read from the environment.
type config struct {
	Port           string
	Env            string
	RequireTLS     bool
	DefaultEdition sanction.Edition
	FlagsBackend   string
	FlagsCacheTTL  time.Duration
	JWTSigningKey  string
}

// loadConfig reads an optional .env file, then the environment. Variables
// already set in the environment win over the file.
func loadConfig() (config, []string, error) {
	var notes []string
	if err := godotenv.Load(); err == nil {
		notes = append(notes, "loaded .env file")
	}

	edition, err := sanction.ParseEdition(getEnvOrDefault("SANCTION_EDITION", string(sanction.EditionBasic)))
	if err != nil {
		return config{}, notes, fmt.Errorf("SANCTION_EDITION: %w", err)
	}

	backend := strings.ToLower(getEnvOrDefault("FLAGS_BACKEND", backendMemory))
	switch backend {
	case backendMemory, backendPostgres, backendRedis:
	default:
		return config{}, notes, fmt.Errorf("FLAGS_BACKEND: unsupported backend %q", backend)
	}

	ttl, err := time.ParseDuration(getEnvOrDefault("FLAGS_CACHE_TTL", "1m"))
	if err != nil {
		return config{}, notes, fmt.Errorf("FLAGS_CACHE_TTL: %w", err)
	}

	return config{
		Port:           getEnvOrDefault("APP_PORT", "8080"),
		Env:            getEnvOrDefault("APP_ENV", "development"),
		RequireTLS:     os.Getenv("REQUIRE_TLS") == "true",
		DefaultEdition: edition,
		FlagsBackend:   backend,
		FlagsCacheTTL:  ttl,
		JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
	}, notes, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
