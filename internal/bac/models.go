// Package bac estimates blood alcohol concentration from self-reported
// drinks using the Widmark approximation.
//
// All functions in this package are pure: they hold no state and perform no
// I/O. Results are estimates for information only and carry no medical or
// legal weight.
package bac

import "errors"

// Estimation errors.
var (
	ErrUnknownDrink       = errors.New("unknown drink")
	ErrQuantityOutOfRange = errors.New("drink quantity out of range")
	ErrInvalidDrinkType   = errors.New("invalid drink type")
	ErrDuplicateDrink     = errors.New("duplicate drink key")
)

// Physiological and legal constants used by the estimator.
const (
	// EthanolDensity is the density of ethanol in g/mL.
	EthanolDensity = 0.8

	// EliminationRatePerHour is the assumed blood clearance rate in g/L per hour.
	EliminationRatePerHour = 0.15

	// BreathFactor converts blood g/L into exhaled air mg/L.
	BreathFactor = 0.5

	// MinQuantity and MaxQuantity bound the units of a single drink type.
	MinQuantity = 0
	MaxQuantity = 20

	// MinWeightKg and MaxWeightKg bound the accepted body weight.
	MinWeightKg = 30.0
	MaxWeightKg = 200.0

	// MinHoursElapsed and MaxHoursElapsed bound the time since the last drink.
	MinHoursElapsed = 0.0
	MaxHoursElapsed = 24.0
)

// Sex selects the Widmark distribution ratio.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// Sexes lists the supported values in display order.
func Sexes() []Sex {
	return []Sex{SexMale, SexFemale}
}

// Valid reports whether s is a known value.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// DistributionRatio returns the fraction of body weight ethanol is assumed
// to distribute through: 0.7 for male physiology, 0.6 otherwise.
func (s Sex) DistributionRatio() float64 {
	if s == SexMale {
		return 0.7
	}
	return 0.6
}

// DriverCategory is the legal class of the driver.
type DriverCategory string

const (
	CategoryGeneral              DriverCategory = "GENERAL"
	CategoryNoviceOrProfessional DriverCategory = "NOVICE_OR_PROFESSIONAL"
	CategoryMinor                DriverCategory = "MINOR"
)

// DriverCategories lists the supported categories in display order.
func DriverCategories() []DriverCategory {
	return []DriverCategory{CategoryGeneral, CategoryNoviceOrProfessional, CategoryMinor}
}

// Valid reports whether c is a known category.
func (c DriverCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryNoviceOrProfessional, CategoryMinor:
		return true
	default:
		return false
	}
}

// LegalLimit returns the maximum permitted blood concentration in g/L.
func (c DriverCategory) LegalLimit() float64 {
	if c == CategoryGeneral {
		return 0.5
	}
	return 0.3
}

// LegalLimitBreath returns the legal limit expressed in exhaled air mg/L.
func (c DriverCategory) LegalLimitBreath() float64 {
	return BreathFromBlood(c.LegalLimit())
}

// Profile holds the personal data the estimate depends on.
type Profile struct {
	WeightKg     float64
	Sex          Sex
	HoursElapsed float64
}
