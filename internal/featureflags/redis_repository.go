package featureflags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding all flags, one field per flag key.
const DefaultRedisKey = "alcoholemia:feature_flags"

// RedisConfig holds configuration for the Redis feature flag repository.
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// Hash key; defaults to DefaultRedisKey
	Key string
}

// RedisRepository stores flags as JSON documents inside a single Redis hash.
type RedisRepository struct {
	client *redis.Client
	key    string
}

// NewRedisRepository creates a Redis-backed repository and verifies the connection.
func NewRedisRepository(ctx context.Context, cfg *RedisConfig) (*RedisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisRepository{
		client: cfg.RedisClient,
		key:    key,
	}, nil
}

// GetFlag retrieves a single feature flag by key.
func (r *RedisRepository) GetFlag(ctx context.Context, key string) (*Flag, error) {
	raw, err := r.client.HGet(ctx, r.key, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("failed to get flag %s: %w", key, err)
	}
	return decodeFlag(raw)
}

// GetAllFlags retrieves all feature flags.
func (r *RedisRepository) GetAllFlags(ctx context.Context) (map[string]*Flag, error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get flags: %w", err)
	}

	flags := make(map[string]*Flag, len(entries))
	for k, raw := range entries {
		flag, err := decodeFlag(raw)
		if err != nil {
			return nil, err
		}
		flags[k] = flag
	}
	return flags, nil
}

// SetFlag creates or updates a feature flag.
func (r *RedisRepository) SetFlag(ctx context.Context, flag *Flag) error {
	return r.SetFlags(ctx, []*Flag{flag})
}

// SetFlags creates or updates multiple feature flags in one transaction.
func (r *RedisRepository) SetFlags(ctx context.Context, flags []*Flag) error {
	now := time.Now()
	values := make([]interface{}, 0, len(flags)*2)
	for _, flag := range flags {
		stored := copyFlag(flag)
		stored.UpdatedAt = now

		data, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal flag %s: %w", flag.Key, err)
		}
		values = append(values, flag.Key, data)
	}
	if len(values) == 0 {
		return nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save flags: %w", err)
	}
	return nil
}

// DeleteFlag removes a feature flag by key.
func (r *RedisRepository) DeleteFlag(ctx context.Context, key string) error {
	removed, err := r.client.HDel(ctx, r.key, key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete flag %s: %w", key, err)
	}
	if removed == 0 {
		return ErrFlagNotFound
	}
	return nil
}

func decodeFlag(raw string) (*Flag, error) {
	var flag Flag
	if err := json.Unmarshal([]byte(raw), &flag); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flag: %w", err)
	}
	return &flag, nil
}

// Ensure RedisRepository implements Repository interface.
var _ Repository = (*RedisRepository)(nil)
