package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-comb/dsp/signal"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// UniformWaveform attaches a uniform time axis t[i] = i/sampleRate to values.
func UniformWaveform(values []float64, sampleRate float64) signal.Waveform {
	t := make([]float64, len(values))
	for i := range t {
		t[i] = float64(i) / sampleRate
	}
	return signal.Waveform{Time: t, Value: values}
}

// SineWaveform generates a uniformly sampled sine waveform.
func SineWaveform(freqHz, sampleRate, amplitude float64, length int) signal.Waveform {
	return UniformWaveform(DeterministicSine(freqHz, sampleRate, amplitude, length), sampleRate)
}

// NoiseWaveform generates a uniformly sampled white-noise waveform.
func NoiseWaveform(seed int64, amplitude, sampleRate float64, length int) signal.Waveform {
	return UniformWaveform(DeterministicNoise(seed, amplitude, length), sampleRate)
}

// PortableNoise generates uniform noise in [-amplitude, amplitude) from a
// xorshift64 sequence. Unlike DeterministicNoise the sequence is easy to
// reproduce outside Go, which makes threshold-sensitive expectations
// checkable offline.
func PortableNoise(seed uint64, amplitude float64, length int) []float64 {
	x := seed
	if x == 0 {
		x = 0x9E3779B97F4A7C15
	}
	out := make([]float64, length)
	for i := range out {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		out[i] = amplitude * (float64(x>>11)/(1<<53)*2 - 1)
	}
	return out
}
