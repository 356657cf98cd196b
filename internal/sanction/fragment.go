package sanction

import (
	"fmt"
	"strings"
)

// FragmentKind classifies a piece of a sanction description.
type FragmentKind string

const (
	KindCriminal       FragmentKind = "CRIMINAL"
	KindAdministrative FragmentKind = "ADMINISTRATIVE"
	KindRecidivism     FragmentKind = "RECIDIVISM"
	KindConsultation   FragmentKind = "CONSULTATION"
)

// Fragment is one structured element of a sanction outcome.
type Fragment struct {
	Kind FragmentKind

	// FineEUR is the administrative fine in euros, zero when not applicable.
	FineEUR int

	// Points is the number of licence points withdrawn.
	Points int

	// Description is the full text for criminal, recidivism and consultation
	// fragments, and an optional qualifier for administrative ones.
	Description string
}

// NoSanctionText is rendered when no fragment applies.
const NoSanctionText = "Sin sanción administrativa aplicable."

// Text renders a single fragment.
func (f Fragment) Text() string {
	if f.Kind != KindAdministrative {
		return f.Description
	}
	text := fmt.Sprintf("Multa: %d €, %d puntos", f.FineEUR, f.Points)
	if f.Description != "" {
		text += " (" + f.Description + ")"
	}
	return text
}

// Render turns fragments into display text, one line per fragment.
func Render(fragments []Fragment) string {
	if len(fragments) == 0 {
		return NoSanctionText
	}
	lines := make([]string, 0, len(fragments))
	for _, f := range fragments {
		lines = append(lines, f.Text())
	}
	return strings.Join(lines, "\n")
}

func fine(eur, points int) Fragment {
	return Fragment{Kind: KindAdministrative, FineEUR: eur, Points: points}
}
