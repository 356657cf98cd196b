package sanction

import "github.com/alcoholemia/alcoholemia/internal/bac"

// ConsultationText is returned by Basic when no tier matches.
const ConsultationText = "Consulta específica requerida para tu caso."

// Basic is the single-tier rule set. Conditions are evaluated in a fixed
// order and the first match wins.
type Basic struct{}

// Edition implements Classifier.
func (Basic) Edition() Edition { return EditionBasic }

// Classify implements Classifier. The recidivism flag is ignored.
func (Basic) Classify(in Input) []Fragment {
	mg := in.BreathMgL
	general := in.Category == bac.CategoryGeneral

	var f Fragment
	switch {
	case mg == 0 && in.Category == bac.CategoryMinor:
		f = fine(500, 4)
		f.Description = "si no se supera 0.5 g/L en sangre"
	case mg <= 0.25:
		f = fine(200, 2)
	case mg <= 0.5 && general:
		f = fine(500, 4)
	case mg <= 0.3 && !general:
		f = fine(500, 4)
	case mg > 0.5 && general:
		f = fine(1000, 6)
	case mg > 0.3 && !general:
		f = fine(1000, 6)
	default:
		f = Fragment{Kind: KindConsultation, Description: ConsultationText}
	}
	return []Fragment{f}
}
