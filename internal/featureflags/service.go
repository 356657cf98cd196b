package featureflags

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

// ServiceConfig holds configuration for the feature flag service.
type ServiceConfig struct {
	Repository   Repository
	Logger       zerolog.Logger
	CacheTTL     time.Duration // How long to cache each flag in memory
	DefaultFlags map[string]*Flag

	// Now overrides the clock used for cache expiry. Defaults to time.Now.
	Now func() time.Time
}

// cachedFlag is a flag plus the moment it must be refetched.
type cachedFlag struct {
	flag      *Flag
	expiresAt time.Time
}

// Service provides feature flag evaluation with caching and fallback.
type Service struct {
	repo         Repository
	logger       zerolog.Logger
	cacheTTL     time.Duration
	defaultFlags map[string]*Flag
	now          func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedFlag
}

// NewService creates a new feature flag service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Minute // Default cache TTL
	}

	defaultFlags := cfg.DefaultFlags
	if defaultFlags == nil {
		defaultFlags = DefaultFlags()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:         cfg.Repository,
		logger:       cfg.Logger,
		cacheTTL:     cacheTTL,
		defaultFlags: defaultFlags,
		now:          now,
		cache:        make(map[string]cachedFlag),
	}
}

// GetFlag retrieves a feature flag by key.
// Uses cached value if available and not expired, with fallback to defaults.
func (s *Service) GetFlag(ctx context.Context, key string) *Flag {
	// Try cache first
	if flag := s.getCached(key); flag != nil {
		return flag
	}

	// Try repository
	flag, err := s.repo.GetFlag(ctx, key)
	if err == nil {
		s.setCached(key, flag)
		return flag
	}

	// Log error if not just "not found"
	if !errors.Is(err, ErrFlagNotFound) {
		s.logger.Warn().Err(err).Str("flag", key).Msg("failed to get feature flag from repository")
	}

	// Fallback to default
	if defaultFlag, ok := s.defaultFlags[key]; ok {
		return defaultFlag
	}

	return nil
}

// GetAllFlags retrieves all feature flags.
// Returns cached values merged with defaults.
func (s *Service) GetAllFlags(ctx context.Context) map[string]*Flag {
	// Start with defaults
	result := make(map[string]*Flag, len(s.defaultFlags))
	for k, v := range s.defaultFlags {
		result[k] = v
	}

	// Try to get from repository
	flags, err := s.repo.GetAllFlags(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to get feature flags from repository, using defaults")
		return result
	}

	// Merge repository flags over defaults
	for k, v := range flags {
		result[k] = v
	}

	// Refresh the cache with the full snapshot
	expiresAt := s.now().Add(s.cacheTTL)
	s.mu.Lock()
	s.cache = make(map[string]cachedFlag, len(flags))
	for k, v := range flags {
		s.cache[k] = cachedFlag{flag: v, expiresAt: expiresAt}
	}
	s.mu.Unlock()

	return result
}

// SetFlag updates a feature flag. Values of well-known flags are validated.
func (s *Service) SetFlag(ctx context.Context, flag *Flag) error {
	if err := ValidateValue(flag.Key, flag.Value); err != nil {
		return err
	}
	flag.UpdatedAt = time.Now()
	if err := s.repo.SetFlag(ctx, flag); err != nil {
		return err
	}

	// Update cache
	s.setCached(flag.Key, flag)
	return nil
}

// SetFlags updates multiple feature flags atomically.
func (s *Service) SetFlags(ctx context.Context, flags []*Flag) error {
	for _, flag := range flags {
		if err := ValidateValue(flag.Key, flag.Value); err != nil {
			return fmt.Errorf("%s: %w", flag.Key, err)
		}
	}

	now := time.Now()
	for _, flag := range flags {
		flag.UpdatedAt = now
	}

	if err := s.repo.SetFlags(ctx, flags); err != nil {
		return err
	}

	// Update cache
	for _, flag := range flags {
		s.setCached(flag.Key, flag)
	}

	return nil
}

// InvalidateCache clears the cached flags, forcing a refresh on next access.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cachedFlag)
}

// IsEnabled returns true if the flag with the given key is enabled (truthy).
// This is a convenience method for boolean flags.
func (s *Service) IsEnabled(ctx context.Context, key string) bool {
	flag := s.GetFlag(ctx, key)
	return flag.BoolValue(false)
}

// getCached retrieves a flag from cache if its entry has not expired.
func (s *Service) getCached(key string) *Flag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[key]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil
	}
	return entry.flag
}

// setCached stores a flag with its own expiry. Other entries keep theirs.
func (s *Service) setCached(key string, flag *Flag) {
	expiresAt := s.now().Add(s.cacheTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cachedFlag{flag: flag, expiresAt: expiresAt}
}

// Convenience methods for well-known flags.

// SanctionEdition returns the rule set configured by the sanction_edition flag.
// Unparseable values fall back to the default flags, then to the basic edition.
func (s *Service) SanctionEdition(ctx context.Context) sanction.Edition {
	flag := s.GetFlag(ctx, FlagSanctionEdition)
	edition, err := sanction.ParseEdition(flag.StringValue(""))
	if err == nil {
		return edition
	}

	s.logger.Warn().Err(err).Str("flag", FlagSanctionEdition).Msg("invalid sanction edition flag, using default")
	if def, ok := s.defaultFlags[FlagSanctionEdition]; ok {
		if edition, err := sanction.ParseEdition(def.StringValue("")); err == nil {
			return edition
		}
	}
	return sanction.EditionBasic
}

// HealthAdvisoriesEnabled returns true if results should carry health advisories.
func (s *Service) HealthAdvisoriesEnabled(ctx context.Context) bool {
	return s.GetFlag(ctx, FlagHealthAdvisories).BoolValue(true)
}
