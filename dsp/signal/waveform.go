package signal

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrLengthMismatch indicates time and value slices of different length.
	ErrLengthMismatch = errors.New("signal: time and value length mismatch")
	// ErrNotMonotonic indicates a time axis that is not strictly increasing.
	ErrNotMonotonic = errors.New("signal: time must be strictly increasing")
	// ErrNonFinite indicates a NaN or Inf sample.
	ErrNonFinite = errors.New("signal: non-finite sample")
)

// Waveform is a captured (time, amplitude) sequence. Time is in seconds and
// strictly increasing; spacing may be non-uniform, as produced by adaptive
// circuit solvers. Consumers treat a Waveform as read-only.
type Waveform struct {
	Time  []float64
	Value []float64
}

// NewWaveform pairs time and value slices and validates the result.
func NewWaveform(time, value []float64) (Waveform, error) {
	w := Waveform{Time: time, Value: value}
	if err := w.Validate(); err != nil {
		return Waveform{}, err
	}
	return w, nil
}

// Len returns the number of samples.
func (w Waveform) Len() int {
	return len(w.Time)
}

// Validate checks the structural invariants of the waveform. An empty or
// single-sample waveform is structurally valid; analysis stages decide
// whether it carries enough data.
func (w Waveform) Validate() error {
	if len(w.Time) != len(w.Value) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(w.Time), len(w.Value))
	}
	for i := range w.Time {
		if math.IsNaN(w.Time[i]) || math.IsInf(w.Time[i], 0) {
			return fmt.Errorf("%w: time at index %d", ErrNonFinite, i)
		}
		if math.IsNaN(w.Value[i]) || math.IsInf(w.Value[i], 0) {
			return fmt.Errorf("%w: value at index %d", ErrNonFinite, i)
		}
		if i > 0 && !(w.Time[i] > w.Time[i-1]) {
			return fmt.Errorf("%w at index %d", ErrNotMonotonic, i)
		}
	}
	return nil
}

// Span returns the first and last time stamps. Both are zero for an empty
// waveform.
func (w Waveform) Span() (start, end float64) {
	if len(w.Time) == 0 {
		return 0, 0
	}
	return w.Time[0], w.Time[len(w.Time)-1]
}

// Duration returns end - start.
func (w Waveform) Duration() float64 {
	start, end := w.Span()
	return end - start
}

// From returns the sub-waveform starting at the first sample with
// time >= t. The returned waveform shares storage with w.
func (w Waveform) From(t float64) Waveform {
	i := 0
	for i < len(w.Time) && w.Time[i] < t {
		i++
	}
	return Waveform{Time: w.Time[i:], Value: w.Value[i:]}
}
