package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 100)
	b := DeterministicNoise(42, 0.5, 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestUniformWaveform(t *testing.T) {
	w := UniformWaveform([]float64{1, 2, 3, 4}, 4)
	if err := w.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if w.Time[3] != 0.75 {
		t.Fatalf("Time[3] = %v, want 0.75", w.Time[3])
	}
}

func TestSineWaveform(t *testing.T) {
	w := SineWaveform(10, 1000, 2, 500)
	if w.Len() != 500 {
		t.Fatalf("len = %d, want 500", w.Len())
	}
	if math.Abs(w.Value[25]-2) > 1e-12 {
		t.Fatalf("peak = %v, want 2", w.Value[25])
	}
}

func TestPortableNoise(t *testing.T) {
	a := PortableNoise(1, 1, 1000)
	b := PortableNoise(1, 1, 1000)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] >= 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
	RequireSliceNearlyEqual(t, a[:3], []float64{-0.9999999998826601, -0.874992248580376, 0.21186878505709306}, 1e-15)
	if PortableNoise(0, 1, 1)[0] == 0 {
		t.Fatal("zero seed must not produce a stuck sequence")
	}
}
