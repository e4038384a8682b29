package spectrum

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-comb/dsp/core"
)

// Spectrum is a one-sided magnitude spectrum on the bins k*fs/N,
// k = 0..N/2. Treat it as read-only.
type Spectrum struct {
	// Freq holds bin centre frequencies in Hz, increasing from 0.
	Freq []float64
	// MagnitudeDB holds 20*log10(|X|*scale + epsilon) per bin.
	MagnitudeDB []float64
	// Resolution is the bin spacing df = SampleRate/Size.
	Resolution float64
	// SampleRate of the transformed series in Hz.
	SampleRate float64
	// Size is the transform length N.
	Size int
}

// Len returns the number of bins.
func (s Spectrum) Len() int {
	return len(s.Freq)
}

// Nyquist returns the highest representable frequency, SampleRate/2.
func (s Spectrum) Nyquist() float64 {
	return s.SampleRate / 2
}

// Range returns the inclusive bin index range [first, last] whose
// frequencies lie in [lo, hi]. ok is false when no bin falls inside.
func (s Spectrum) Range(lo, hi float64) (first, last int, ok bool) {
	if s.Len() == 0 || s.Resolution <= 0 || hi < lo {
		return 0, 0, false
	}

	first = s.clampedBin(lo) - 1
	for first < s.Len() && (first < 0 || s.Freq[first] < lo) {
		first++
	}
	last = s.clampedBin(hi) + 1
	for last >= s.Len() || (last >= 0 && s.Freq[last] > hi) {
		last--
	}
	if first > last {
		return 0, 0, false
	}
	return first, last, true
}

// clampedBin returns floor(f/df) limited to [0, Len].
func (s Spectrum) clampedBin(f float64) int {
	v := core.Clamp(f/s.Resolution, 0, float64(s.Len()))
	if math.IsNaN(v) {
		return 0
	}
	return int(v)
}

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Scratch buffers are pooled, so in steady state this allocates only the
// output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)
	return out
}
