package window

import "math"

// Analysis holds numerically evaluated spectral properties of a window.
type Analysis struct {
	// CoherentGain is sum(w)/N, the amplitude a bin-centred tone is scaled by.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the two-sided half-power main lobe width in bins.
	Bandwidth3dB float64
	// FirstNullBins is the distance of the first main lobe null from DC.
	FirstNullBins float64
	// HighestSidelobedB is the largest response past the first null,
	// relative to DC.
	HighestSidelobedB float64
	// ScallopLossdB is the response half a bin off centre, relative to DC.
	ScallopLossdB float64
}

// Analyze evaluates the transform of coeffs on a fine frequency grid.
// Frequencies are measured in bins of len(coeffs).
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}
	dc := response(coeffs, 0)
	if dc == 0 {
		return Analysis{}
	}

	var a Analysis
	a.ENBW, _ = EquivalentNoiseBandwidth(coeffs)
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	a.CoherentGain = sum / float64(n)
	a.ScallopLossdB = powerDB(response(coeffs, 0.5)/dc)

	// rel is the power response at bin offset b, relative to DC.
	rel := func(b float64) float64 { return response(coeffs, b) / dc }

	lo, hi := 0.0, float64(n)/2
	for range 64 {
		mid := (lo + hi) / 2
		if rel(mid) > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}
	a.Bandwidth3dB = 2 * lo

	const step = 0.125
	limit := float64(n) / 2
	null := limit
	prev := rel(0)
	for b := step; b < limit; b += step {
		cur := rel(b)
		if prev < 0.1 && cur > prev {
			null = refineMinimum(rel, b-2*step, b)
			break
		}
		prev = cur
	}
	a.FirstNullBins = null

	peak, at := 0.0, null
	for b := null; b < limit; b += step {
		if v := rel(b); v > peak {
			peak, at = v, b
		}
	}
	for b := at - step; b <= at+step; b += step / 32 {
		if b < null {
			continue
		}
		if v := rel(b); v > peak {
			peak = v
		}
	}
	a.HighestSidelobedB = powerDB(peak)
	return a
}

// response returns |W(b)|^2 with b in bins.
func response(coeffs []float64, b float64) float64 {
	w := 2 * math.Pi * b / float64(len(coeffs))
	re, im := 0.0, 0.0
	for k, c := range coeffs {
		s, co := math.Sincos(w * float64(k))
		re += c * co
		im -= c * s
	}
	return re*re + im*im
}

// refineMinimum runs a golden-section search for the minimum of f on [a, b].
func refineMinimum(f func(float64) float64, a, b float64) float64 {
	const phi = 0.6180339887498949
	if a < 0 {
		a = 0
	}
	c, d := b-phi*(b-a), a+phi*(b-a)
	for range 64 {
		if f(c) < f(d) {
			b = d
		} else {
			a = c
		}
		c, d = b-phi*(b-a), a+phi*(b-a)
	}
	return (a + b) / 2
}

func powerDB(ratio float64) float64 {
	if ratio <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(ratio)
}
