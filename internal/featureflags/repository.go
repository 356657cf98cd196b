package featureflags

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/alcoholemia/alcoholemia/internal/featureflags Repository

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrFlagNotFound     = errors.New("feature flag not found")
	ErrInvalidFlagValue = errors.New("invalid feature flag value")
)

// Repository defines the interface for feature flag storage.
type Repository interface {
	// GetFlag retrieves a single feature flag by key.
	GetFlag(ctx context.Context, key string) (*Flag, error)

	// GetAllFlags retrieves all feature flags.
	GetAllFlags(ctx context.Context) (map[string]*Flag, error)

	// SetFlag creates or updates a feature flag.
	SetFlag(ctx context.Context, flag *Flag) error

	// SetFlags creates or updates multiple feature flags atomically.
	SetFlags(ctx context.Context, flags []*Flag) error

	// DeleteFlag removes a feature flag by key.
	DeleteFlag(ctx context.Context, key string) error
}
