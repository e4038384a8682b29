package spectrum

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-comb/dsp/core"
	"github.com/cwbudde/algo-comb/dsp/resample"
	"github.com/cwbudde/algo-comb/dsp/window"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrTooShort indicates a series with fewer than 2 samples.
	ErrTooShort = errors.New("spectrum: series must have at least 2 samples")
	// ErrInvalidStep indicates a non-positive sample step.
	ErrInvalidStep = errors.New("spectrum: sample step must be > 0")
	// ErrUnknownBackend indicates an unsupported FFT backend.
	ErrUnknownBackend = errors.New("spectrum: unknown FFT backend")
	// ErrUnknownNormalization indicates an unsupported magnitude scaling.
	ErrUnknownNormalization = errors.New("spectrum: unknown normalization")
)

// Normalization selects the magnitude scaling applied before dB conversion.
type Normalization int

const (
	// NormalizeDefault lets the caller pick; Estimator treats it as 1/N.
	NormalizeDefault Normalization = iota
	// NormalizeOneOverN scales |X| by 1/N.
	NormalizeOneOverN
	// NormalizeTwoOverN scales |X| by 2/N, the single-sided amplitude.
	NormalizeTwoOverN
)

// Scale returns the factor applied to |X| for a transform of length n.
func (m Normalization) Scale(n int) float64 {
	if m == NormalizeTwoOverN {
		return 2 / float64(n)
	}
	return 1 / float64(n)
}

// String returns "1/N", "2/N" or "default".
func (m Normalization) String() string {
	switch m {
	case NormalizeOneOverN:
		return "1/N"
	case NormalizeTwoOverN:
		return "2/N"
	case NormalizeDefault:
		return "default"
	}
	return fmt.Sprintf("normalization(%d)", int(m))
}

// ParseNormalization accepts "1/n", "2/n" (case-insensitive) or "default".
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "auto":
		return NormalizeDefault, nil
	case "1/n", "one", "1":
		return NormalizeOneOverN, nil
	case "2/n", "two", "2":
		return NormalizeTwoOverN, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNormalization, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Normalization) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Normalization) UnmarshalText(text []byte) error {
	v, err := ParseNormalization(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Estimator computes windowed one-sided magnitude spectra.
// The zero value uses a rectangular window, 1/N scaling, algo-fft and the
// default dB floor; use [NewEstimator] for the Hann default.
type Estimator struct {
	Window        window.Type
	Normalization Normalization
	Backend       Backend
	// Epsilon is added to the scaled magnitude before taking the log.
	// Values <= 0 select core.DefaultDBFloor.
	Epsilon float64
}

// NewEstimator returns an Estimator with a symmetric Hann window and 1/N
// scaling.
func NewEstimator() Estimator {
	return Estimator{
		Window:        window.TypeHann,
		Normalization: NormalizeOneOverN,
		Backend:       BackendAlgoFFT,
		Epsilon:       core.DefaultDBFloor,
	}
}

// Estimate removes the mean of s, applies the symmetric window, and
// returns the one-sided spectrum in dB with N/2+1 bins at k*fs/N.
// s is not modified.
func (e Estimator) Estimate(s resample.UniformSeries) (Spectrum, error) {
	n := s.Len()
	if n < 2 {
		return Spectrum{}, fmt.Errorf("%w: %d", ErrTooShort, n)
	}
	if !(s.Step > 0) {
		return Spectrum{}, fmt.Errorf("%w: %v", ErrInvalidStep, s.Step)
	}

	x := make([]float64, n)
	mean := stat.Mean(s.Values, nil)
	for i, v := range s.Values {
		x[i] = v - mean
	}
	window.Apply(e.Window, x)

	bins, err := forwardReal(e.Backend, x)
	if err != nil {
		return Spectrum{}, err
	}

	mag := Magnitude(bins)
	scale := e.Normalization.Scale(n)
	fs := s.SampleRate()
	df := fs / float64(n)

	freq := make([]float64, len(mag))
	for k := range mag {
		mag[k] = core.AmplitudeToDB(mag[k]*scale, e.Epsilon)
		freq[k] = float64(k) * df
	}

	return Spectrum{
		Freq:        freq,
		MagnitudeDB: mag,
		Resolution:  df,
		SampleRate:  fs,
		Size:        n,
	}, nil
}
