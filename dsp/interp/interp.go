package interp

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates empty abscissa or ordinate input.
	ErrEmpty = errors.New("interp: x and y must not be empty")
	// ErrLengthMismatch indicates x and y of different length.
	ErrLengthMismatch = errors.New("interp: x/y length mismatch")
	// ErrNotIncreasing indicates an abscissa that is not strictly increasing.
	ErrNotIncreasing = errors.New("interp: x must be strictly increasing")
)

// Linear2 interpolates between x0 and x1 at frac in [0,1].
func Linear2(frac, x0, x1 float64) float64 {
	return x0 + frac*(x1-x0)
}

// LinearUniform interpolates (x, y) on the uniform grid
// start + k*step for k = 0..n-1.
//
// x must be strictly increasing and have the same length as y. Grid points
// outside [x[0], x[len-1]] are held at the end values.
//
// It walks x and the grid together, so the cost is O(len(x) + n) instead of
// a binary search per query. step must be positive.
func LinearUniform(x, y []float64, start, step float64, n int) ([]float64, error) {
	if err := validate(x, y); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("interp: grid length must be >= 0: %d", n)
	}
	if n > 1 && !(step > 0) {
		return nil, fmt.Errorf("interp: grid step must be > 0: %v", step)
	}

	out := make([]float64, n)
	last := len(x) - 1
	j := 1
	for k := range out {
		q := start + float64(k)*step
		if q <= x[0] {
			out[k] = y[0]
			continue
		}
		if q >= x[last] {
			out[k] = y[last]
			continue
		}
		for x[j] < q {
			j++
		}
		x0, x1 := x[j-1], x[j]
		out[k] = Linear2((q-x0)/(x1-x0), y[j-1], y[j])
	}
	return out, nil
}

func validate(x, y []float64) error {
	if len(x) == 0 || len(y) == 0 {
		return ErrEmpty
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return fmt.Errorf("%w at index %d", ErrNotIncreasing, i)
		}
	}
	return nil
}
