package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-comb/dsp/core"
)

func TestTimesUniform(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))
	ts, err := g.Times(5)
	if err != nil {
		t.Fatalf("Times() error = %v", err)
	}
	want := []float64{0, 0.001, 0.002, 0.003, 0.004}
	for i := range want {
		if math.Abs(ts[i]-want[i]) > 1e-15 {
			t.Fatalf("ts[%d]=%v, want %v", i, ts[i], want[i])
		}
	}
}

func TestJitteredTimesStrictlyIncreasing(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000), core.WithSeed(3))
	ts, err := g.JitteredTimes(2000, 0.9)
	if err != nil {
		t.Fatalf("JitteredTimes() error = %v", err)
	}
	uniform := true
	for i := 1; i < len(ts); i++ {
		step := ts[i] - ts[i-1]
		if step <= 0 {
			t.Fatalf("non-increasing time at %d: %v -> %v", i, ts[i-1], ts[i])
		}
		if math.Abs(step-0.001) > 1e-9 {
			uniform = false
		}
	}
	if uniform {
		t.Fatal("expected non-uniform steps")
	}

	if _, err := g.JitteredTimes(10, 1); err == nil {
		t.Fatal("expected error for jitter >= 1")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGenerator(core.WithSeed(42))
	g2 := NewGenerator(core.WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if math.Abs(n1[i]) > 1 {
			t.Fatalf("noise out of range at %d: %v", i, n1[i])
		}
	}
}

func TestSetSeed(t *testing.T) {
	g := NewGenerator()
	g.SetSeed(99)
	if g.Seed() != 99 {
		t.Fatalf("Seed()=%d, want 99", g.Seed())
	}

	a, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	g.SetSeed(100)
	b, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestOddHarmonicsFundamentalOnly(t *testing.T) {
	ts := []float64{0, 0.025, 0.05, 0.075}
	got := OddHarmonics(ts, 10, 1, 1)
	want := Sine(ts, 10, 4/math.Pi)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("got[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestHarmonicsSkipsZeroAmplitudes(t *testing.T) {
	ts := []float64{0.01, 0.02}
	got := Harmonics(ts, 5, []float64{0, 2})
	want := Sine(ts, 10, 2)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("got[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestOddComb(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))
	w, err := g.OddComb(10, 1, 9, 2, 0.01)
	if err != nil {
		t.Fatalf("OddComb() error = %v", err)
	}
	if w.Len() != 2000 {
		t.Fatalf("len = %d, want 2000", w.Len())
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if _, err := g.OddComb(0, 1, 9, 2, 0); err == nil {
		t.Fatal("expected error for zero fundamental")
	}
}

func TestWaveformValidate(t *testing.T) {
	tests := []struct {
		name string
		w    Waveform
		want error
	}{
		{name: "ok", w: Waveform{Time: []float64{0, 1, 3}, Value: []float64{1, 2, 3}}},
		{name: "empty", w: Waveform{}},
		{name: "mismatch", w: Waveform{Time: []float64{0, 1}, Value: []float64{1}}, want: ErrLengthMismatch},
		{name: "repeated time", w: Waveform{Time: []float64{0, 1, 1}, Value: []float64{1, 2, 3}}, want: ErrNotMonotonic},
		{name: "nan value", w: Waveform{Time: []float64{0, 1}, Value: []float64{1, math.NaN()}}, want: ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWaveformFrom(t *testing.T) {
	w := Waveform{Time: []float64{0, 1, 2, 3}, Value: []float64{10, 11, 12, 13}}
	sub := w.From(1.5)
	if sub.Len() != 2 || sub.Time[0] != 2 || sub.Value[1] != 13 {
		t.Fatalf("From(1.5) = %+v", sub)
	}
	if start, end := sub.Span(); start != 2 || end != 3 {
		t.Fatalf("Span() = %v, %v", start, end)
	}
	if w.From(10).Len() != 0 {
		t.Fatal("expected empty waveform past the end")
	}
}
