package comb

import (
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-comb/dsp/spectrum"
)

// Candidate is an expected comb tooth before detection.
type Candidate struct {
	// Index is the harmonic index n, starting at 1.
	Index int
	// Order is the multiple of the fundamental: n in full mode, 2n-1 in
	// odd mode.
	Order      int
	ExpectedHz float64
}

// ExpectedTeeth lists the expected teeth for cfg in increasing frequency,
// up to the smaller of cfg.MaxFrequencyHz and nyquist and, if set, up to
// order cfg.MaxHarmonic. Both limits are inclusive.
func ExpectedTeeth(cfg Config, nyquist float64) []Candidate {
	if !(cfg.FundamentalHz > 0) || !(nyquist > 0) {
		return nil
	}

	fMax := nyquist
	if cfg.MaxFrequencyHz > 0 && cfg.MaxFrequencyHz < fMax {
		fMax = cfg.MaxFrequencyHz
	}

	var out []Candidate
	for n := 1; ; n++ {
		order := cfg.Order(n)
		if cfg.MaxHarmonic > 0 && order > cfg.MaxHarmonic {
			break
		}
		f := float64(order) * cfg.FundamentalHz
		if f > fMax {
			break
		}
		out = append(out, Candidate{Index: n, Order: order, ExpectedHz: f})
	}
	return out
}

// DetectTeeth locates, for each candidate, the strongest bin with
// frequency in [ExpectedHz-halfWidthHz, ExpectedHz+halfWidthHz]. On ties
// the lowest-frequency bin wins. Candidates whose window holds no bin are
// dropped. The returned teeth carry no SNR yet; see [Evaluate].
func DetectTeeth(spec spectrum.Spectrum, expected []Candidate, halfWidthHz float64) []Tooth {
	teeth := make([]Tooth, 0, len(expected))
	for _, c := range expected {
		first, last, ok := spec.Range(c.ExpectedHz-halfWidthHz, c.ExpectedHz+halfWidthHz)
		if !ok {
			continue
		}
		k := first + floats.MaxIdx(spec.MagnitudeDB[first:last+1])
		teeth = append(teeth, Tooth{
			Index:       c.Index,
			Order:       c.Order,
			ExpectedHz:  c.ExpectedHz,
			MeasuredHz:  spec.Freq[k],
			AmplitudeDB: spec.MagnitudeDB[k],
		})
	}
	return teeth
}
