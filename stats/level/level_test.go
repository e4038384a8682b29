package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-comb/internal/testutil"
)

func TestCalculateConstant(t *testing.T) {
	x := []float64{1.5, 1.5, 1.5, 1.5}
	s := Calculate(x)

	if s.Length != 4 || s.DC != 1.5 || s.RMS != 0 || s.PeakToPeak != 0 || s.Peak != 0 {
		t.Fatalf("Calculate(constant) = %+v", s)
	}
	if s.CrestFactorDB != 0 {
		t.Fatalf("CrestFactorDB = %v, want 0", s.CrestFactorDB)
	}
	testutil.RequireNear(t, "RMS(constant)", RMS(x), 1.5, 1e-15)
}

func TestCalculateSineWithOffset(t *testing.T) {
	// 10 full cycles, 100 samples per cycle.
	x := testutil.DeterministicSine(10, 1000, 2, 1000)
	for i := range x {
		x[i] += 0.25
	}

	s := Calculate(x)
	testutil.RequireNear(t, "DC", s.DC, 0.25, 1e-12)
	testutil.RequireNear(t, "RMS", s.RMS, math.Sqrt2, 1e-9)
	testutil.RequireNear(t, "PeakToPeak", s.PeakToPeak, 4, 1e-9)
	testutil.RequireNear(t, "Peak", s.Peak, 2, 1e-9)
	testutil.RequireNear(t, "CrestFactorDB", s.CrestFactorDB, 20*math.Log10(math.Sqrt2), 1e-6)
	testutil.RequireNear(t, "RMS total", RMS(x), math.Sqrt(2+0.25*0.25), 1e-9)
}

func TestCalculateAsymmetricPeak(t *testing.T) {
	s := Calculate([]float64{0, 0, 0, 4})
	if s.DC != 1 || s.Peak != 3 || s.Min != 0 || s.Max != 4 {
		t.Fatalf("Calculate() = %+v", s)
	}
}

func TestCalculateEmpty(t *testing.T) {
	if s := Calculate(nil); s != (Stats{}) {
		t.Fatalf("Calculate(nil) = %+v", s)
	}
	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
}

func BenchmarkCalculate65536(b *testing.B) {
	x := testutil.DeterministicSine(13, 65536, 1, 65536)
	b.ReportAllocs()
	b.SetBytes(int64(len(x) * 8))
	for range b.N {
		Calculate(x)
	}
}
