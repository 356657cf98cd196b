// Package sanction maps an exhaled-air alcohol concentration to the fines,
// licence points and criminal exposure published for Spanish drivers.
//
// Two rule sets coexist and are deliberately kept apart: Basic reproduces
// the single-tier table, Extended adds the criminal threshold, finer
// administrative bands and the recidivism surcharge. They disagree on
// several thresholds; which one reflects current law is for the legal owner
// to decide, so both remain selectable.
//
// The output is advisory text. It is not a legal determination.
package sanction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alcoholemia/alcoholemia/internal/bac"
)

// ErrUnknownEdition is returned for an unrecognised rule set name.
var ErrUnknownEdition = errors.New("unknown sanction edition")

// Edition names a sanction rule set.
type Edition string

const (
	EditionBasic    Edition = "BASIC"
	EditionExtended Edition = "EXTENDED"
)

// Editions lists the available rule sets.
func Editions() []Edition {
	return []Edition{EditionBasic, EditionExtended}
}

// ParseEdition parses a case-insensitive edition name.
func ParseEdition(s string) (Edition, error) {
	switch Edition(strings.ToUpper(strings.TrimSpace(s))) {
	case EditionBasic:
		return EditionBasic, nil
	case EditionExtended:
		return EditionExtended, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEdition, s)
	}
}

// Input is the data a classifier decides on.
type Input struct {
	// BreathMgL is the exhaled air concentration in mg/L.
	BreathMgL float64

	// Category is the driver's legal class.
	Category bac.DriverCategory

	// Recidivist marks a repeat offender. Only Extended uses it.
	Recidivist bool
}

// Classifier is a sanction rule set.
type Classifier interface {
	// Edition identifies the rule set.
	Edition() Edition

	// Classify returns the applicable sanction fragments in display order.
	Classify(in Input) []Fragment
}

// ForEdition returns the classifier implementing edition.
func ForEdition(edition Edition) (Classifier, error) {
	switch edition {
	case EditionBasic:
		return Basic{}, nil
	case EditionExtended:
		return Extended{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEdition, edition)
	}
}
