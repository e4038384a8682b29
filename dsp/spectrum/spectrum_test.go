package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-comb/dsp/core"
	"github.com/cwbudde/algo-comb/dsp/resample"
	"github.com/cwbudde/algo-comb/dsp/window"
	"github.com/cwbudde/algo-comb/internal/testutil"
)

func series(values []float64, fs float64) resample.UniformSeries {
	return resample.UniformSeries{Start: 0, Step: 1 / fs, Values: values}
}

func peakBin(s Spectrum) int {
	best := 0
	for k, v := range s.MagnitudeDB {
		if v > s.MagnitudeDB[best] {
			best = k
		}
	}
	return best
}

func TestEstimateFrequencyAxis(t *testing.T) {
	for _, n := range []int{8, 9, 1024} {
		spec, err := NewEstimator().Estimate(series(make([]float64, n), 100))
		if err != nil {
			t.Fatalf("n=%d: Estimate error: %v", n, err)
		}
		if spec.Len() != n/2+1 || len(spec.MagnitudeDB) != n/2+1 {
			t.Fatalf("n=%d: len=%d, want %d", n, spec.Len(), n/2+1)
		}
		if spec.Size != n || spec.SampleRate != 100 {
			t.Fatalf("n=%d: size=%d fs=%v", n, spec.Size, spec.SampleRate)
		}
		testutil.RequireNear(t, "resolution", spec.Resolution, 100/float64(n), 1e-12)
		for k, f := range spec.Freq {
			testutil.RequireNear(t, "freq", f, float64(k)*spec.Resolution, 1e-9)
		}
	}
}

func TestEstimateSinePeak(t *testing.T) {
	const (
		n  = 1024
		fs = 1024.0
		f  = 64.0
	)
	x := testutil.DeterministicSine(f, fs, 1, n)

	tests := []struct {
		name string
		est  Estimator
		want float64
	}{
		{name: "rect 1/N", est: Estimator{Window: window.TypeRectangular, Normalization: NormalizeOneOverN}, want: -6.0206},
		{name: "rect 2/N", est: Estimator{Window: window.TypeRectangular, Normalization: NormalizeTwoOverN}, want: 0},
		{name: "hann 2/N", est: Estimator{Window: window.TypeHann, Normalization: NormalizeTwoOverN}, want: 20 * math.Log10(float64(n-1)/float64(2*n))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.est.Estimate(series(x, fs))
			if err != nil {
				t.Fatalf("Estimate error: %v", err)
			}
			k := peakBin(spec)
			if spec.Freq[k] != f {
				t.Fatalf("peak at %v Hz, want %v", spec.Freq[k], f)
			}
			testutil.RequireNear(t, "peak dB", spec.MagnitudeDB[k], tt.want, 0.01)
		})
	}
}

func TestEstimateRemovesMean(t *testing.T) {
	x := make([]float64, 64)
	for i := range x {
		x[i] = 0.75
	}

	spec, err := NewEstimator().Estimate(series(x, 64))
	if err != nil {
		t.Fatalf("Estimate error: %v", err)
	}
	floor := core.AmplitudeToDB(0, core.DefaultDBFloor)
	for k, v := range spec.MagnitudeDB {
		if v != floor {
			t.Fatalf("bin %d: %v dB, want floor %v", k, v, floor)
		}
	}
	if x[0] != 0.75 {
		t.Fatal("input modified")
	}
}

func TestEstimateEpsilonFloor(t *testing.T) {
	est := NewEstimator()
	est.Epsilon = 1e-12
	spec, err := est.Estimate(series(make([]float64, 16), 16))
	if err != nil {
		t.Fatalf("Estimate error: %v", err)
	}
	testutil.RequireNear(t, "floor", spec.MagnitudeDB[3], -240, 1e-9)
}

func TestBackendsAgree(t *testing.T) {
	for _, n := range []int{1024, 1000} {
		x := testutil.DeterministicSine(37.3, 1000, 1, n)
		noise := testutil.DeterministicNoise(7, 0.1, n)
		for i := range x {
			x[i] += noise[i]
		}

		var ref []float64
		for _, b := range []Backend{BackendAlgoFFT, BackendGonum, BackendGoDSP} {
			est := NewEstimator()
			est.Backend = b
			spec, err := est.Estimate(series(x, 1000))
			if err != nil {
				t.Fatalf("n=%d %v: Estimate error: %v", n, b, err)
			}
			lin := make([]float64, spec.Len())
			for k, v := range spec.MagnitudeDB {
				lin[k] = core.DBToLinear(v)
			}
			if ref == nil {
				ref = lin
				continue
			}
			diff, err := testutil.MaxAbsDiff(lin, ref)
			if err != nil {
				t.Fatalf("n=%d %v: %v", n, b, err)
			}
			if diff > 1e-12 {
				t.Fatalf("n=%d %v: max diff %v vs algofft", n, b, diff)
			}
		}
	}
}

func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n/2+1)
	for k := range out {
		var sum complex128
		for i, v := range x {
			phase := -2 * math.Pi * float64(k*i%n) / float64(n)
			sum += complex(v*math.Cos(phase), v*math.Sin(phase))
		}
		out[k] = sum
	}
	return out
}

func TestForwardRealMatchesNaiveDFT(t *testing.T) {
	sizes := []int{16, 40, 200, 1000, 1024, 1536, 2000}
	for _, b := range []Backend{BackendAlgoFFT, BackendGonum, BackendGoDSP} {
		for _, n := range sizes {
			x := testutil.DeterministicNoise(int64(n), 1, n)
			want := naiveDFT(x)
			got, err := forwardReal(b, x)
			if err != nil {
				t.Fatalf("%v n=%d: %v", b, n, err)
			}
			if len(got) != len(want) {
				t.Fatalf("%v n=%d: %d bins, want %d", b, n, len(got), len(want))
			}
			for k := range want {
				if d := cmplx.Abs(got[k] - want[k]); d > 1e-8 {
					t.Fatalf("%v n=%d bin %d: |diff| = %v", b, n, k, d)
				}
			}
		}
	}
}

func TestEstimateErrors(t *testing.T) {
	est := NewEstimator()
	if _, err := est.Estimate(series([]float64{1}, 10)); !errors.Is(err, ErrTooShort) {
		t.Fatalf("error = %v, want ErrTooShort", err)
	}
	if _, err := est.Estimate(resample.UniformSeries{Values: []float64{1, 2}}); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("error = %v, want ErrInvalidStep", err)
	}
	est.Backend = Backend(9)
	if _, err := est.Estimate(series([]float64{1, 2, 3, 4}, 10)); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("error = %v, want ErrUnknownBackend", err)
	}
}

func TestRange(t *testing.T) {
	spec := Spectrum{
		Freq:        []float64{0, 0.5, 1, 1.5, 2, 2.5},
		MagnitudeDB: make([]float64, 6),
		Resolution:  0.5,
		SampleRate:  5,
		Size:        10,
	}

	tests := []struct {
		name        string
		lo, hi      float64
		first, last int
		ok          bool
	}{
		{name: "inclusive edges", lo: 0.5, hi: 1.5, first: 1, last: 3, ok: true},
		{name: "between bins", lo: 0.6, hi: 1.4, first: 2, last: 2, ok: true},
		{name: "narrower than df", lo: 1.1, hi: 1.4, ok: false},
		{name: "below zero", lo: -1, hi: 0.2, first: 0, last: 0, ok: true},
		{name: "past nyquist", lo: 2.4, hi: 9, first: 5, last: 5, ok: true},
		{name: "beyond", lo: 3, hi: 4, ok: false},
		{name: "inverted", lo: 2, hi: 1, ok: false},
		{name: "infinite", lo: math.Inf(-1), hi: math.Inf(1), first: 0, last: 5, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, ok := spec.Range(tt.lo, tt.hi)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (first != tt.first || last != tt.last) {
				t.Fatalf("range = [%d,%d], want [%d,%d]", first, last, tt.first, tt.last)
			}
		})
	}
}

func TestMagnitude(t *testing.T) {
	in := []complex128{3 + 4i, -1, 2i}
	testutil.RequireSliceNearlyEqual(t, Magnitude(in), []float64{5, 1, 2}, 1e-12)
	if Magnitude(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestParseNames(t *testing.T) {
	for _, b := range []Backend{BackendAlgoFFT, BackendGonum, BackendGoDSP} {
		got, err := ParseBackend(b.String())
		if err != nil || got != b {
			t.Fatalf("ParseBackend(%q) = %v, %v", b.String(), got, err)
		}
	}
	if _, err := ParseBackend("fftw"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("error = %v, want ErrUnknownBackend", err)
	}

	for in, want := range map[string]Normalization{"1/N": NormalizeOneOverN, "2/n": NormalizeTwoOverN, "": NormalizeDefault} {
		got, err := ParseNormalization(in)
		if err != nil || got != want {
			t.Fatalf("ParseNormalization(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseNormalization("3/N"); !errors.Is(err, ErrUnknownNormalization) {
		t.Fatalf("error = %v, want ErrUnknownNormalization", err)
	}

	var m Normalization
	if err := m.UnmarshalText([]byte("2/N")); err != nil || m != NormalizeTwoOverN {
		t.Fatalf("UnmarshalText = %v, %v", m, err)
	}
	if NormalizeTwoOverN.Scale(8) != 0.25 || NormalizeDefault.Scale(8) != 0.125 {
		t.Fatal("unexpected scale factors")
	}
}

func BenchmarkEstimate65536(b *testing.B) {
	const n = 65536
	x := testutil.DeterministicSine(50, 10000, 1, n)
	s := series(x, 10000)

	for _, backend := range []Backend{BackendAlgoFFT, BackendGonum, BackendGoDSP} {
		b.Run(backend.String(), func(b *testing.B) {
			est := NewEstimator()
			est.Backend = backend
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = est.Estimate(s)
			}
		})
	}
}
