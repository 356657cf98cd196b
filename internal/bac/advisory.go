package bac

// AdvisoryLevel grades the expected effects of a blood concentration.
type AdvisoryLevel string

const (
	AdvisoryNone     AdvisoryLevel = "NONE"
	AdvisoryMild     AdvisoryLevel = "MILD"
	AdvisoryModerate AdvisoryLevel = "MODERATE"
	AdvisoryElevated AdvisoryLevel = "ELEVATED"
	AdvisorySevere   AdvisoryLevel = "SEVERE"
)

// AdvisoryLevels lists all levels from lowest to highest.
func AdvisoryLevels() []AdvisoryLevel {
	return []AdvisoryLevel{AdvisoryNone, AdvisoryMild, AdvisoryModerate, AdvisoryElevated, AdvisorySevere}
}

// Advisory is a health message keyed on the blood concentration.
type Advisory struct {
	Level   AdvisoryLevel
	Message string
}

// AdvisoryFor returns the health advisory for a blood concentration in g/L.
func AdvisoryFor(bloodGPerL float64) Advisory {
	switch {
	case bloodGPerL > 2.0:
		return Advisory{
			Level:   AdvisorySevere,
			Message: "Nivel muy alto de alcoholemia. Riesgo severo para la salud.",
		}
	case bloodGPerL > 1.0:
		return Advisory{
			Level:   AdvisoryElevated,
			Message: "Nivel elevado. Evita conducir y considera buscar ayuda médica si hay síntomas.",
		}
	case bloodGPerL > 0.5:
		return Advisory{
			Level:   AdvisoryModerate,
			Message: "Podrías experimentar efectos moderados: euforia, menor coordinación.",
		}
	case bloodGPerL > 0:
		return Advisory{
			Level:   AdvisoryMild,
			Message: "Efectos leves posibles: relajación, reducción de reflejos.",
		}
	default:
		return Advisory{Level: AdvisoryNone}
	}
}
