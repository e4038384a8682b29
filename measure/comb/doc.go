// Package comb measures the quality of a frequency comb in a captured
// waveform.
//
// A comb is a set of spectral lines ("teeth") at integer multiples of a
// drive frequency (full mode) or at odd multiples of a fundamental (odd
// mode). Analysis runs as a fixed pipeline:
//
//	Waveform -> SteadyState -> Uniform -> Estimate -> DetectTeeth -> Evaluate -> BuildReport
//
// Each stage is a pure function of the previous stage's output. The
// per-tooth signal-to-noise ratio is taken against either the median of
// the tooth's own search window (local) or the median of the whole
// spectrum (global). A comb with no detectable teeth is a valid outcome
// and yields an empty [Report], not an error.
package comb
