package frecency

import "math"

// Recency windows in seconds
const (
	HourSeconds = 3600
	DaySeconds  = 86400
	WeekSeconds = 604800
)

// lengthExponent dampens long commands so length alone cannot dominate.
const lengthExponent = 0.6

// RecencyMultiplier returns the weight for a command last used elapsed seconds ago.
func RecencyMultiplier(elapsed int64) float64 {
	switch {
	case elapsed <= HourSeconds:
		return 4.0
	case elapsed <= DaySeconds:
		return 2.0
	case elapsed <= WeekSeconds:
		return 0.5
	default:
		return 0.25
	}
}

// Score computes floor(mult * length^0.6 * frequency) at now, clamped to int64.
func Score(e Entry, now int64) int64 {
	mult := RecencyMultiplier(satSub(now, e.LastAccess))
	raw := mult * math.Pow(float64(e.Length), lengthExponent) * float64(e.Frequency)
	return clampFloat(math.Floor(raw))
}

// decay scales a frequency by factor, rounding half away from zero.
func decay(frequency int64, factor float64) int64 {
	return clampFloat(math.Round(float64(frequency) * factor))
}
