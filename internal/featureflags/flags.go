// Package featureflags provides feature flag management for runtime configuration.
package featureflags

import (
	"time"

	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

// Well-known feature flag keys.
const (
	// FlagSanctionEdition selects the sanction rule set ("BASIC" or "EXTENDED")
	// for requests that do not name one.
	FlagSanctionEdition = "sanction_edition"

	// FlagHealthAdvisories includes health advisory messages in results.
	FlagHealthAdvisories = "health_advisories"
)

// Flag represents a feature flag with its current value.
type Flag struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// BoolValue returns the flag value as a boolean.
// Returns the default value if the flag is nil, not found, or not a boolean.
func (f *Flag) BoolValue(defaultValue bool) bool {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case bool:
		return v
	case float64:
		// JSON unmarshals numbers as float64
		return v != 0
	default:
		return defaultValue
	}
}

// StringValue returns the flag value as a string.
// Returns the default value if the flag is nil, not found, or not a string.
func (f *Flag) StringValue(defaultValue string) string {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case string:
		return v
	default:
		return defaultValue
	}
}

// DefaultFlags returns the default feature flags using the basic sanction edition.
func DefaultFlags() map[string]*Flag {
	return DefaultFlagsWithEdition(sanction.EditionBasic)
}

// DefaultFlagsWithEdition returns the default feature flags with the given
// sanction edition as the fallback rule set.
func DefaultFlagsWithEdition(edition sanction.Edition) map[string]*Flag {
	now := time.Now()
	return map[string]*Flag{
		FlagSanctionEdition: {
			Key:       FlagSanctionEdition,
			Value:     string(edition),
			UpdatedAt: now,
		},
		FlagHealthAdvisories: {
			Key:       FlagHealthAdvisories,
			Value:     true,
			UpdatedAt: now,
		},
	}
}

// ValidateValue checks that value is acceptable for a well-known flag key.
// Unknown keys accept any value.
func ValidateValue(key string, value interface{}) error {
	switch key {
	case FlagSanctionEdition:
		s, ok := value.(string)
		if !ok {
			return ErrInvalidFlagValue
		}
		if _, err := sanction.ParseEdition(s); err != nil {
			return ErrInvalidFlagValue
		}
	case FlagHealthAdvisories:
		if _, ok := value.(bool); !ok {
			return ErrInvalidFlagValue
		}
	}
	return nil
}
