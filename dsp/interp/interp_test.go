package interp

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-comb/internal/testutil"
)

func TestLinear2(t *testing.T) {
	if got := Linear2(0.25, 2, 4); got != 2.5 {
		t.Fatalf("Linear2 got %v want 2.5", got)
	}
}

func TestLinearUniformNonUniformInput(t *testing.T) {
	x := []float64{0, 1, 3, 4}
	y := []float64{0, 2, 6, 0}

	got, err := LinearUniform(x, y, -1, 0.5, 13)
	if err != nil {
		t.Fatalf("LinearUniform error: %v", err)
	}
	want := []float64{0, 0, 0, 1, 2, 3, 4, 5, 6, 3, 0, 0, 0}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestLinearUniformReproducesLines(t *testing.T) {
	x := []float64{0, 0.1, 0.15, 0.4, 0.7, 0.71, 1.0}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 3*v - 1
	}

	const n = 33
	step := 1.0 / (n - 1)
	got, err := LinearUniform(x, y, 0, step, n)
	if err != nil {
		t.Fatalf("LinearUniform error: %v", err)
	}
	want := make([]float64, n)
	for k := range want {
		want[k] = 3*float64(k)*step - 1
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestLinearUniformIdentityOnGrid(t *testing.T) {
	x := []float64{1, 1.5, 2, 2.5, 3}
	y := []float64{4, -1, 2, 8, 3}

	got, err := LinearUniform(x, y, 1, 0.5, len(x))
	if err != nil {
		t.Fatalf("LinearUniform error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, y, 1e-12)
}

func TestLinearErrors(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want error
	}{
		{name: "empty", x: nil, y: nil, want: ErrEmpty},
		{name: "mismatch", x: []float64{0, 1}, y: []float64{0}, want: ErrLengthMismatch},
		{name: "decreasing", x: []float64{0, 2, 1}, y: []float64{0, 1, 2}, want: ErrNotIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LinearUniform(tt.x, tt.y, 0, 0.1, 4); !errors.Is(err, tt.want) {
				t.Fatalf("LinearUniform error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := LinearUniform([]float64{0, 1}, []float64{0, 1}, 0, 0, 4); err == nil {
		t.Fatal("expected error for zero step")
	}
}
