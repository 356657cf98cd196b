package sanction

import "github.com/alcoholemia/alcoholemia/internal/bac"

// Thresholds used by the extended rule set, in exhaled air mg/L.
const (
	CriminalThresholdMgL = 0.60

	generalHighMgL = 0.50
	generalMidMgL  = 0.25
	generalLowMgL  = 0.10

	restrictedHighMgL = 0.30
	restrictedMidMgL  = 0.15

	minorHighMgL = 0.50
)

// Texts used by the extended rule set.
const (
	CriminalText = "Delito contra la seguridad vial (art. 379.2 CP): prisión de 3 a 6 meses " +
		"o multa de 6 a 12 meses o trabajos en beneficio de la comunidad de 31 a 90 días, " +
		"y privación del derecho a conducir de 1 a 4 años."
	RecidivismText = "Reincidencia: la multa se incrementa un 100 %."
	warningText    = "advertencia, sin retirada de puntos"
)

// Extended evaluates the criminal threshold independently, then appends
// exactly one administrative band for the driver category, then the
// recidivism surcharge when flagged.
type Extended struct{}

// Edition implements Classifier.
func (Extended) Edition() Edition { return EditionExtended }

// Classify implements Classifier.
func (Extended) Classify(in Input) []Fragment {
	var fragments []Fragment

	if in.BreathMgL >= CriminalThresholdMgL {
		fragments = append(fragments, Fragment{Kind: KindCriminal, Description: CriminalText})
	}

	if f, ok := extendedAdministrative(in.BreathMgL, in.Category); ok {
		fragments = append(fragments, f)
	}

	if in.Recidivist {
		fragments = append(fragments, Fragment{Kind: KindRecidivism, Description: RecidivismText})
	}

	return fragments
}

// extendedAdministrative picks the administrative band. Upper bands are
// exclusive at their lower edge; the lowest band of each category is
// inclusive.
func extendedAdministrative(mg float64, category bac.DriverCategory) (Fragment, bool) {
	switch category {
	case bac.CategoryMinor:
		if mg > minorHighMgL {
			return fine(1000, 6), true
		}
		return fine(500, 4), true

	case bac.CategoryNoviceOrProfessional:
		switch {
		case mg > restrictedHighMgL:
			return fine(1000, 6), true
		case mg >= restrictedMidMgL:
			return fine(500, 4), true
		}

	case bac.CategoryGeneral:
		switch {
		case mg > generalHighMgL:
			return fine(1000, 6), true
		case mg > generalMidMgL:
			return fine(500, 4), true
		case mg >= generalLowMgL:
			f := fine(100, 0)
			f.Description = warningText
			return f, true
		}
	}
	return Fragment{}, false
}
