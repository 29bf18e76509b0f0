// Package calc holds small numeric helpers shared across the analysis
// packages. Every weighted-center computation in the engine goes
// through WeightedAverage so the degenerate-denominator handling lives
// in exactly one place.
package calc

// WeightedAverage returns sum(values[i]*weights[i]) / sum(weights),
// or fallback when the inputs are empty, mismatched, or the weights
// sum to zero.
func WeightedAverage(values, weights []float64, fallback float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return fallback
	}

	var num, den float64
	for i, v := range values {
		num += v * weights[i]
		den += weights[i]
	}

	if den == 0 {
		return fallback
	}
	return num / den
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// SafeRatio returns num/den, or fallback when den is zero.
func SafeRatio(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}
