// Package calculator runs the full estimate: drink mass, blood and breath
// concentration, time to the legal limit, sanction and health advisory.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/alcoholemia/alcoholemia/internal/api/models"
	"github.com/alcoholemia/alcoholemia/internal/bac"
	"github.com/alcoholemia/alcoholemia/internal/sanction"
)

// ErrEmptyConsumption is returned when no drink has a positive quantity.
var ErrEmptyConsumption = errors.New("no drinks consumed")

// Input is everything a single estimate depends on.
type Input struct {
	WeightKg     float64
	Sex          bac.Sex
	HoursElapsed float64
	Category     bac.DriverCategory
	Recidivist   bool
	Drinks       map[string]int

	// Edition forces a sanction rule set. Empty means "use the configured one".
	Edition sanction.Edition
}

// Result is the outcome of one estimate. Concentrations are unrounded.
type Result struct {
	EthanolGrams     float64
	BloodGPerL       float64
	BreathMgPerL     float64
	LegalLimitGPerL  float64
	LegalLimitMgPerL float64
	HoursToLegal     float64
	Category         bac.DriverCategory
	Edition          sanction.Edition
	Fragments        []sanction.Fragment
	SanctionText     string

	// Advisory is nil when health advisories are switched off.
	Advisory *bac.Advisory
}

// OverLimit reports whether the blood concentration exceeds the legal limit.
func (r *Result) OverLimit() bool {
	return r.BloodGPerL > r.LegalLimitGPerL
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// inRange reports whether v is a finite number within [lo, hi].
func inRange(v, lo, hi float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= lo && v <= hi
}

// Validate checks every field and collects all problems found.
func (in Input) Validate(catalog *bac.Catalog) error {
	var errs []models.FieldError

	if !inRange(in.WeightKg, bac.MinWeightKg, bac.MaxWeightKg) {
		errs = append(errs, models.FieldError{
			Field:   "weightKg",
			Message: fmt.Sprintf("must be between %.0f and %.0f", bac.MinWeightKg, bac.MaxWeightKg),
			Code:    "out_of_range",
		})
	}
	if !inRange(in.HoursElapsed, bac.MinHoursElapsed, bac.MaxHoursElapsed) {
		errs = append(errs, models.FieldError{
			Field:   "hoursElapsed",
			Message: fmt.Sprintf("must be between %.0f and %.0f", bac.MinHoursElapsed, bac.MaxHoursElapsed),
			Code:    "out_of_range",
		})
	}
	if !in.Sex.Valid() {
		errs = append(errs, models.FieldError{
			Field:   "sex",
			Message: "must be MALE or FEMALE",
			Code:    "invalid_enum",
		})
	}
	if !in.Category.Valid() {
		errs = append(errs, models.FieldError{
			Field:   "driverCategory",
			Message: "must be GENERAL, NOVICE_OR_PROFESSIONAL or MINOR",
			Code:    "invalid_enum",
		})
	}
	if in.Edition != "" {
		if _, err := sanction.ParseEdition(string(in.Edition)); err != nil {
			errs = append(errs, models.FieldError{
				Field:   "edition",
				Message: "must be BASIC or EXTENDED",
				Code:    "invalid_enum",
			})
		}
	}

	keys := make([]string, 0, len(in.Drinks))
	for k := range in.Drinks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field := "drinks." + key
		if _, ok := catalog.Lookup(key); !ok {
			errs = append(errs, models.FieldError{
				Field:   field,
				Message: "unknown drink type",
				Code:    "unknown_drink",
			})
			continue
		}
		if qty := in.Drinks[key]; qty < bac.MinQuantity || qty > bac.MaxQuantity {
			errs = append(errs, models.FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be between %d and %d", bac.MinQuantity, bac.MaxQuantity),
				Code:    "out_of_range",
			})
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Calculate validates in and runs the estimate with the given classifier.
// It has no side effects; identical inputs give identical results.
func Calculate(catalog *bac.Catalog, classifier sanction.Classifier, in Input) (*Result, error) {
	if err := in.Validate(catalog); err != nil {
		return nil, err
	}

	consumption, err := bac.NewConsumption(catalog, in.Drinks)
	if err != nil {
		return nil, err
	}
	if consumption.IsEmpty() {
		return nil, ErrEmptyConsumption
	}

	grams, err := bac.AlcoholMass(catalog, consumption.Quantities())
	if err != nil {
		return nil, fmt.Errorf("alcohol mass: %w", err)
	}

	blood := bac.EstimateForProfile(grams, bac.Profile{
		WeightKg:     in.WeightKg,
		Sex:          in.Sex,
		HoursElapsed: in.HoursElapsed,
	})
	breath := bac.BreathFromBlood(blood)
	limit := in.Category.LegalLimit()

	fragments := classifier.Classify(sanction.Input{
		BreathMgL:  breath,
		Category:   in.Category,
		Recidivist: in.Recidivist,
	})
	advisory := bac.AdvisoryFor(blood)

	return &Result{
		EthanolGrams:     grams,
		BloodGPerL:       blood,
		BreathMgPerL:     breath,
		LegalLimitGPerL:  limit,
		LegalLimitMgPerL: in.Category.LegalLimitBreath(),
		HoursToLegal:     bac.HoursToLimit(blood, limit),
		Category:         in.Category,
		Edition:          classifier.Edition(),
		Fragments:        fragments,
		SanctionText:     sanction.Render(fragments),
		Advisory:         &advisory,
	}, nil
}
