package models

// CalculationRequest is the body of POST /v1/calculations.
// Omitted profile fields take the documented defaults.
type CalculationRequest struct {
	WeightKg       *float64       `json:"weightKg,omitempty"`
	Sex            string         `json:"sex,omitempty"`
	HoursElapsed   *float64       `json:"hoursElapsed,omitempty"`
	DriverCategory string         `json:"driverCategory,omitempty"`
	Recidivist     bool           `json:"recidivist,omitempty"`
	Drinks         map[string]int `json:"drinks"`
	Edition        string         `json:"edition,omitempty"`
}

// Request defaults.
const (
	DefaultWeightKg       = 70.0
	DefaultHoursElapsed   = 1.0
	DefaultSex            = "MALE"
	DefaultDriverCategory = "GENERAL"
)

// CalculationResponse is the outcome of a calculation.
type CalculationResponse struct {
	Input        CalculationInput   `json:"input"`
	EthanolGrams float64            `json:"ethanolGrams"`
	BloodGPerL   float64            `json:"bloodGPerL"`
	BreathMgPerL float64            `json:"breathMgPerL"`
	LegalLimit   LegalLimit         `json:"legalLimit"`
	OverLimit    bool               `json:"overLimit"`
	HoursToLegal float64            `json:"hoursToLegal"`
	Sanction     Sanction           `json:"sanction"`
	Advisory     *HealthAdvisory    `json:"advisory,omitempty"`
	Display      CalculationDisplay `json:"display"`
}

// CalculationInput echoes the input after defaults were applied.
type CalculationInput struct {
	WeightKg       float64        `json:"weightKg"`
	Sex            string         `json:"sex"`
	HoursElapsed   float64        `json:"hoursElapsed"`
	DriverCategory string         `json:"driverCategory"`
	Recidivist     bool           `json:"recidivist"`
	Drinks         map[string]int `json:"drinks"`
}

// LegalLimit is the limit for the driver category in both units.
type LegalLimit struct {
	BloodGPerL   float64 `json:"bloodGPerL"`
	BreathMgPerL float64 `json:"breathMgPerL"`
}

// Sanction is the classification result of one rule set.
type Sanction struct {
	Edition   string             `json:"edition"`
	Fragments []SanctionFragment `json:"fragments"`
	Text      string             `json:"text"`
}

// SanctionFragment is one independent part of a sanction.
type SanctionFragment struct {
	Kind    string `json:"kind"`
	FineEUR int    `json:"fineEur,omitempty"`
	Points  int    `json:"points,omitempty"`
	Text    string `json:"text"`
}

// HealthAdvisory is an informational message keyed on the blood concentration.
type HealthAdvisory struct {
	Level   string `json:"level"`
	Message string `json:"message,omitempty"`
}

// CalculationDisplay holds the values formatted for presentation.
type CalculationDisplay struct {
	Blood        string `json:"blood"`
	Breath       string `json:"breath"`
	LegalLimit   string `json:"legalLimit"`
	HoursToLegal string `json:"hoursToLegal"`
	Sanction     string `json:"sanction"`
	Disclaimer   string `json:"disclaimer"`
}

// Disclaimer is attached to every calculation.
const Disclaimer = "Estimación orientativa. No sustituye a un etilómetro homologado ni constituye asesoramiento legal."
