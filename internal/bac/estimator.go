package bac

import "math"

// EstimateBAC applies the Widmark formula and returns the blood alcohol
// concentration in g/L after hoursElapsed of elimination, clamped at zero.
// weightKg and ratio must be positive.
func EstimateBAC(ethanolGrams, weightKg, ratio, hoursElapsed float64) float64 {
	raw := ethanolGrams/(weightKg*ratio) - EliminationRatePerHour*hoursElapsed
	return math.Max(raw, 0)
}

// EstimateForProfile is EstimateBAC with the profile's weight, ratio and hours.
func EstimateForProfile(ethanolGrams float64, p Profile) float64 {
	return EstimateBAC(ethanolGrams, p.WeightKg, p.Sex.DistributionRatio(), p.HoursElapsed)
}

// BreathFromBlood converts a blood concentration (g/L) into the equivalent
// exhaled air concentration (mg/L).
func BreathFromBlood(bloodGPerL float64) float64 {
	return bloodGPerL * BreathFactor
}

// HoursToLimit returns how long elimination takes to bring bac down to limit.
// It is zero when bac is already at or below the limit.
func HoursToLimit(bac, limit float64) float64 {
	if bac <= limit {
		return 0
	}
	return (bac - limit) / EliminationRatePerHour
}
