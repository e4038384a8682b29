package spectrum

import (
	"fmt"
	"strings"

	algofft "github.com/MeKo-Christian/algo-fft"
	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation behind [Estimator].
type Backend int

const (
	// BackendAlgoFFT uses algo-fft plans for power-of-two lengths. Other
	// lengths are transformed with gonum instead.
	BackendAlgoFFT Backend = iota
	// BackendGonum uses gonum's dsp/fourier real FFT.
	BackendGonum
	// BackendGoDSP uses mjibson/go-dsp.
	BackendGoDSP
)

var backendNames = map[Backend]string{
	BackendAlgoFFT: "algofft",
	BackendGonum:   "gonum",
	BackendGoDSP:   "godsp",
}

// String returns the backend name used in configuration.
func (b Backend) String() string {
	if s, ok := backendNames[b]; ok {
		return s
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend resolves a backend name, case-insensitively.
func ParseBackend(name string) (Backend, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "algofft", "algo-fft":
		return BackendAlgoFFT, nil
	case "gonum", "fourier":
		return BackendGonum, nil
	case "godsp", "go-dsp":
		return BackendGoDSP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// forwardReal returns the non-negative frequency bins X[0..N/2] of the
// real sequence x.
func forwardReal(b Backend, x []float64) ([]complex128, error) {
	n := len(x)
	half := n/2 + 1

	switch b {
	case BackendAlgoFFT:
		if !isPowerOf2(n) {
			return gonumReal(x), nil
		}
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return gonumReal(x), nil
		}
		in := make([]complex128, n)
		for i, v := range x {
			in[i] = complex(v, 0)
		}
		out := make([]complex128, n)
		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("spectrum: algo-fft forward (n=%d): %w", n, err)
		}
		return out[:half], nil
	case BackendGonum:
		return gonumReal(x), nil
	case BackendGoDSP:
		return dspfft.FFTReal(x)[:half], nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBackend, int(b))
	}
}

func gonumReal(x []float64) []complex128 {
	return fourier.NewFFT(len(x)).Coefficients(nil, x)
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
