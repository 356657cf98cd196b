package featureflags

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/alcoholemia/alcoholemia/internal/resilience"
)

// BreakerRepository guards a remote Repository with a circuit breaker.
// ErrFlagNotFound is a normal answer and never counts as a failure.
type BreakerRepository struct {
	next     Repository
	cb       *gobreaker.CircuitBreaker[any]
	registry *resilience.Registry
}

// BreakerConfig holds configuration for BreakerRepository.
type BreakerConfig struct {
	// Name identifies the breaker in logs and the dependency registry.
	Name string

	// Breaker overrides the default circuit breaker settings.
	Breaker *resilience.CircuitBreakerConfig

	// Registry receives the breaker and call outcomes. Optional.
	Registry *resilience.Registry

	Logger zerolog.Logger
}

// NewBreakerRepository wraps next with a circuit breaker.
func NewBreakerRepository(next Repository, cfg BreakerConfig) *BreakerRepository {
	cbCfg := resilience.DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		cbCfg = *cfg.Breaker
		cbCfg.Name = cfg.Name
	}
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrFlagNotFound) || errors.Is(err, ErrInvalidFlagValue)
	}
	logger := cfg.Logger
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("feature flag store circuit breaker changed state")
	}

	cb := resilience.NewCircuitBreaker[any](cbCfg)
	if cfg.Registry != nil {
		cfg.Registry.Register(cb)
	}

	return &BreakerRepository{
		next:     next,
		cb:       cb,
		registry: cfg.Registry,
	}
}

// State returns the current circuit breaker state.
func (r *BreakerRepository) State() gobreaker.State {
	return r.cb.State()
}

// GetFlag retrieves a single feature flag by key.
func (r *BreakerRepository) GetFlag(ctx context.Context, key string) (*Flag, error) {
	v, err := r.execute(func() (any, error) {
		return r.next.GetFlag(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Flag), nil
}

// GetAllFlags retrieves all feature flags.
func (r *BreakerRepository) GetAllFlags(ctx context.Context) (map[string]*Flag, error) {
	v, err := r.execute(func() (any, error) {
		return r.next.GetAllFlags(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]*Flag), nil
}

// SetFlag creates or updates a feature flag.
func (r *BreakerRepository) SetFlag(ctx context.Context, flag *Flag) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.next.SetFlag(ctx, flag)
	})
	return err
}

// SetFlags creates or updates multiple feature flags atomically.
func (r *BreakerRepository) SetFlags(ctx context.Context, flags []*Flag) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.next.SetFlags(ctx, flags)
	})
	return err
}

// DeleteFlag removes a feature flag by key.
func (r *BreakerRepository) DeleteFlag(ctx context.Context, key string) error {
	_, err := r.execute(func() (any, error) {
		return nil, r.next.DeleteFlag(ctx, key)
	})
	return err
}

func (r *BreakerRepository) execute(call func() (any, error)) (any, error) {
	v, err := r.cb.Execute(call)
	if err != nil {
		if resilience.IsBreakerRejection(err) {
			return nil, fmt.Errorf("%s: %w", r.cb.Name(), resilience.ErrCircuitOpen)
		}
		if r.registry != nil && !errors.Is(err, ErrFlagNotFound) {
			r.registry.RecordFailure(r.cb.Name(), err)
		}
		return nil, err
	}
	if r.registry != nil {
		r.registry.RecordSuccess(r.cb.Name())
	}
	return v, nil
}

// Ensure BreakerRepository implements Repository interface.
var _ Repository = (*BreakerRepository)(nil)
