package comb

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-comb/dsp/core"
	"github.com/cwbudde/algo-comb/dsp/spectrum"
)

// Metrics holds the aggregate comb quality figures.
type Metrics struct {
	ValidCount int
	// FlatnessDB is max-min amplitude over valid teeth, 0 with fewer than
	// 2 valid teeth.
	FlatnessDB float64
	// MeanSNRDB is the mean SNR over valid teeth, 0 with none valid.
	MeanSNRDB float64
	// MeanSpacingErrorPPM is the mean deviation of valid teeth from the
	// nearest multiple of the fundamental, 0 with fewer than 2 valid teeth.
	MeanSpacingErrorPPM float64
}

// NoiseFloor returns the median dB level of the bins in [loHz, hiHz]
// farther than exclusionHz from peakHz. ok is false when no bin qualifies.
func NoiseFloor(spec spectrum.Spectrum, loHz, hiHz, peakHz, exclusionHz float64) (float64, bool) {
	first, last, ok := spec.Range(loHz, hiHz)
	if !ok {
		return 0, false
	}

	masked := make([]float64, 0, last-first+1)
	for k := first; k <= last; k++ {
		if math.Abs(spec.Freq[k]-peakHz) > exclusionHz {
			masked = append(masked, spec.MagnitudeDB[k])
		}
	}
	return core.Median(masked)
}

// GlobalNoiseFloor returns the median dB level over all bins.
func GlobalNoiseFloor(spec spectrum.Spectrum) (float64, bool) {
	return core.Median(spec.MagnitudeDB)
}

// Evaluate scores detected teeth against the configured noise reference
// and computes the aggregates. The input slice is not modified.
//
// In local mode a tooth whose noise mask is empty gets an SNR of 0.
func Evaluate(spec spectrum.Spectrum, teeth []Tooth, cfg Config) ([]Tooth, Metrics) {
	out := make([]Tooth, len(teeth))
	copy(out, teeth)

	global, haveGlobal := 0.0, false
	if cfg.NoiseMode == NoiseGlobal {
		global, haveGlobal = GlobalNoiseFloor(spec)
	}

	w := cfg.HalfWidthHz()
	exclusion := cfg.ExclusionBins * spec.Resolution
	for i := range out {
		t := &out[i]
		floor, ok := global, haveGlobal
		if cfg.NoiseMode == NoiseLocal {
			floor, ok = NoiseFloor(spec, t.ExpectedHz-w, t.ExpectedHz+w, t.MeasuredHz, exclusion)
		}
		t.SNRDB = 0
		if ok {
			t.SNRDB = t.AmplitudeDB - floor
		}
		t.Valid = t.SNRDB > cfg.SNRThresholdDB
	}

	return out, Summarize(out, cfg.FundamentalHz)
}

// Summarize computes the aggregate metrics over the teeth marked Valid.
func Summarize(teeth []Tooth, fundamentalHz float64) Metrics {
	var amps, snrs, ppm []float64
	for _, t := range teeth {
		if !t.Valid {
			continue
		}
		amps = append(amps, t.AmplitudeDB)
		snrs = append(snrs, t.SNRDB)
		ppm = append(ppm, SpacingErrorPPM(t.MeasuredHz, fundamentalHz))
	}

	m := Metrics{ValidCount: len(amps)}
	if m.ValidCount > 0 {
		m.MeanSNRDB = stat.Mean(snrs, nil)
	}
	if m.ValidCount > 1 {
		m.FlatnessDB = floats.Max(amps) - floats.Min(amps)
		m.MeanSpacingErrorPPM = stat.Mean(ppm, nil)
	}
	return m
}

// SpacingErrorPPM returns |f - n*unit|/unit in parts per million, with n
// the nearest integer to f/unit. It is 0 for a non-positive unit.
func SpacingErrorPPM(f, unit float64) float64 {
	if !(unit > 0) {
		return 0
	}
	n := math.Round(f / unit)
	return math.Abs(f-n*unit) / unit * 1e6
}
