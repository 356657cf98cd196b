package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alcoholemia/alcoholemia/internal/resilience"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisConfigFromEnv creates a RedisConfig from environment variables.
func RedisConfigFromEnv() RedisConfig {
	db, _ := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	return RedisConfig{
		Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: getEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

// ConnectRedis creates a Redis client and waits until it answers PING.
func ConnectRedis(ctx context.Context, cfg RedisConfig, retry resilience.RetryConfig, log zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	attempt := 0
	err := resilience.Retry(ctx, retry, func() error {
		attempt++
		if pingErr := client.Ping(ctx).Err(); pingErr != nil {
			log.Warn().Err(pingErr).Int("attempt", attempt).Msg("redis not reachable yet")
			return pingErr
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
