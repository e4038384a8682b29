// Package level summarizes the amplitude of a sampled waveform segment.
package level

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-comb/dsp/core"
)

// Stats holds amplitude statistics of a segment. AC quantities are taken
// about the mean, the component removed before spectral estimation.
type Stats struct {
	Length int     `json:"length" yaml:"length"`
	DC     float64 `json:"dc" yaml:"dc"`
	// RMS is the AC root mean square.
	RMS        float64 `json:"rms" yaml:"rms"`
	Min        float64 `json:"min" yaml:"min"`
	Max        float64 `json:"max" yaml:"max"`
	PeakToPeak float64 `json:"peak_to_peak" yaml:"peak_to_peak"`
	// Peak is the largest deviation from DC.
	Peak float64 `json:"peak" yaml:"peak"`
	// CrestFactorDB is 20*log10(Peak/RMS), 0 for a constant segment.
	CrestFactorDB float64 `json:"crest_factor_db" yaml:"crest_factor_db"`
}

// Calculate returns the statistics of x. An empty segment yields the zero
// value.
func Calculate(x []float64) Stats {
	if len(x) == 0 {
		return Stats{}
	}

	mean, std := stat.PopMeanStdDev(x, nil)
	lo, hi := floats.Min(x), floats.Max(x)
	s := Stats{
		Length:     len(x),
		DC:         mean,
		RMS:        std,
		Min:        lo,
		Max:        hi,
		PeakToPeak: hi - lo,
		Peak:       math.Max(hi-mean, mean-lo),
	}
	if s.RMS > 0 {
		s.CrestFactorDB = core.AmplitudeToDB(s.Peak/s.RMS, 0)
	}
	return s
}

// RMS returns the root mean square of x including its DC component.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}
