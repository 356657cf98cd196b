package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "APP_ENV", "REQUIRE_TLS", "SANCTION_EDITION", "FLAGS_BACKEND", "FLAGS_CACHE_TTL", "JWT_SIGNING_KEY"} {
		t.Setenv(key, "")
	}

	cfg, _, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.RequireTLS)
	assert.Equal(t, sanction.EditionBasic, cfg.DefaultEdition)
	assert.Equal(t, backendMemory, cfg.FlagsBackend)
	assert.Equal(t, time.Minute, cfg.FlagsCacheTTL)
	assert.Empty(t, cfg.JWTSigningKey)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REQUIRE_TLS", "true")
	t.Setenv("SANCTION_EDITION", "extended")
	t.Setenv("FLAGS_BACKEND", "Redis")
	t.Setenv("FLAGS_CACHE_TTL", "30s")

	cfg, _, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.RequireTLS)
	assert.Equal(t, sanction.EditionExtended, cfg.DefaultEdition)
	assert.Equal(t, backendRedis, cfg.FlagsBackend)
	assert.Equal(t, 30*time.Second, cfg.FlagsCacheTTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown edition", "SANCTION_EDITION", "2019"},
		{"unknown backend", "FLAGS_BACKEND", "etcd"},
		{"bad ttl", "FLAGS_CACHE_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SANCTION_EDITION", "")
			t.Setenv("FLAGS_BACKEND", "")
			t.Setenv("FLAGS_CACHE_TTL", "")
			t.Setenv(tt.key, tt.value)

			_, _, err := loadConfig()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
