package resample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-comb/dsp/interp"
	"github.com/cwbudde/algo-comb/dsp/signal"
)

var (
	// ErrInsufficientData indicates fewer than 2 samples or a zero time span,
	// for which no sample rate is defined.
	ErrInsufficientData = errors.New("resample: insufficient data")
	// ErrInvalidCount indicates a target sample count below 2.
	ErrInvalidCount = errors.New("resample: invalid sample count")
	// ErrInvalidFraction indicates a settle fraction outside [0,1).
	ErrInvalidFraction = errors.New("resample: invalid settle fraction")
)

// DefaultSettleFraction is the leading share of a record treated as
// start-up transient.
const DefaultSettleFraction = 0.5

// UniformSeries is a waveform on an equally spaced grid:
// t[k] = Start + k*Step for k in [0, len(Values)).
type UniformSeries struct {
	Start  float64
	Step   float64
	Values []float64
}

// Len returns the number of samples.
func (u UniformSeries) Len() int {
	return len(u.Values)
}

// SampleRate returns 1/Step, or 0 for a degenerate series.
func (u UniformSeries) SampleRate() float64 {
	if u.Step <= 0 {
		return 0
	}
	return 1 / u.Step
}

// End returns the time stamp of the last sample.
func (u UniformSeries) End() float64 {
	if len(u.Values) == 0 {
		return u.Start
	}
	return u.Start + float64(len(u.Values)-1)*u.Step
}

// Uniform resamples w onto n equally spaced points spanning
// [t_min, t_max] by linear interpolation. w is not modified.
func Uniform(w signal.Waveform, n int) (UniformSeries, error) {
	if n < 2 {
		return UniformSeries{}, fmt.Errorf("%w: %d (need >= 2)", ErrInvalidCount, n)
	}
	if err := checkSpan(w); err != nil {
		return UniformSeries{}, err
	}
	if err := w.Validate(); err != nil {
		return UniformSeries{}, err
	}

	start, end := w.Span()
	step := (end - start) / float64(n-1)

	values, err := interp.LinearUniform(w.Time, w.Value, start, step, n)
	if err != nil {
		return UniformSeries{}, err
	}
	// Pin the last grid point to the last sample; start+(n-1)*step may
	// round just below end.
	values[n-1] = w.Value[w.Len()-1]

	return UniformSeries{Start: start, Step: step, Values: values}, nil
}

// SteadyState returns the part of w with
// t >= t_min + fraction*(t_max - t_min). A fraction of 0 returns w itself.
// The result shares storage with w.
func SteadyState(w signal.Waveform, fraction float64) (signal.Waveform, error) {
	if fraction < 0 || fraction >= 1 {
		return signal.Waveform{}, fmt.Errorf("%w: %v (need [0,1))", ErrInvalidFraction, fraction)
	}
	if err := checkSpan(w); err != nil {
		return signal.Waveform{}, err
	}
	if fraction == 0 {
		return w, nil
	}

	start, end := w.Span()
	ss := w.From(start + fraction*(end-start))
	if err := checkSpan(ss); err != nil {
		return signal.Waveform{}, fmt.Errorf("steady-state segment: %w", err)
	}
	return ss, nil
}

func checkSpan(w signal.Waveform) error {
	if w.Len() < 2 || len(w.Value) < 2 {
		return fmt.Errorf("%w: %d samples (need >= 2)", ErrInsufficientData, w.Len())
	}
	start, end := w.Span()
	switch {
	case end > start:
		return nil
	case end == start:
		return fmt.Errorf("%w: zero time span at t=%v", ErrInsufficientData, start)
	}
	// A reversed or non-finite axis is a malformed waveform, not a short one.
	if err := w.Validate(); err != nil {
		return err
	}
	return fmt.Errorf("%w: time span [%v, %v]", ErrInsufficientData, start, end)
}
