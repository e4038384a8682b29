package core

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultDBFloor is the additive floor used when converting spectrum
// magnitudes to decibels.
const DefaultDBFloor = 1e-15

// Clamp limits v to [lo, hi]; swapped bounds are reordered. NaN is
// returned unchanged.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// AmplitudeToDB converts a linear magnitude to decibels as 20*log10(v+floor).
// A non-positive floor falls back to [DefaultDBFloor], so the result is
// always finite for v >= 0.
func AmplitudeToDB(v, floor float64) float64 {
	if floor <= 0 {
		floor = DefaultDBFloor
	}
	if v < 0 {
		v = 0
	}

	return 20 * math.Log10(v+floor)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// Median returns the median of data without modifying it. For an even
// number of values it is the mean of the two middle values. The second
// return value is false when data is empty.
func Median(data []float64) (float64, bool) {
	n := len(data)
	if n == 0 {
		return 0, false
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2], true
	}

	return stat.Mean(sorted[n/2-1:n/2+1], nil), true
}
