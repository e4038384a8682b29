package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-comb/dsp/core"
	"gonum.org/v1/gonum/floats"
)

// Generator creates deterministic test waveforms from a shared configuration.
type Generator struct {
	cfg core.ProcessorConfig
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{cfg: core.ApplyProcessorOptions(opts...)}
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SetSeed changes the noise seed.
func (g *Generator) SetSeed(seed int64) {
	g.cfg.Seed = seed
}

// Seed returns the current noise seed.
func (g *Generator) Seed() int64 {
	return g.cfg.Seed
}

// Times returns samples uniformly spaced time stamps starting at 0.
func (g *Generator) Times(samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("time samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	dt := 1 / g.cfg.SampleRate
	for i := range out {
		out[i] = float64(i) * dt
	}
	return out, nil
}

// JitteredTimes returns samples strictly increasing time stamps whose steps
// vary randomly by up to ±jitter (fraction of the nominal step, in [0,1)).
// It mimics the adaptive time stepping of a transient circuit solver.
func (g *Generator) JitteredTimes(samples int, jitter float64) ([]float64, error) {
	if jitter < 0 || jitter >= 1 {
		return nil, fmt.Errorf("jitter must be in [0,1): %f", jitter)
	}
	out, err := g.Times(samples)
	if err != nil {
		return nil, err
	}
	dt := 1 / g.cfg.SampleRate
	rng := rand.New(rand.NewSource(g.cfg.Seed))
	t := 0.0
	for i := 1; i < samples; i++ {
		t += dt * (1 + jitter*(rng.Float64()*2-1))
		out[i] = t
	}
	return out, nil
}

// Sine evaluates amplitude*sin(2*pi*freqHz*t) at the given time stamps.
func Sine(times []float64, freqHz, amplitude float64) []float64 {
	out := make([]float64, len(times))
	w := 2 * math.Pi * freqHz
	for i, t := range times {
		out[i] = amplitude * math.Sin(w*t)
	}
	return out
}

// OddHarmonics evaluates a band-limited square-ish wave: the odd harmonics
// k = 1, 3, ..., maxOrder of f0 with amplitude (4/pi)*amplitude/k.
func OddHarmonics(times []float64, f0, amplitude float64, maxOrder int) []float64 {
	out := make([]float64, len(times))
	for k := 1; k <= maxOrder; k += 2 {
		a := 4 / math.Pi * amplitude / float64(k)
		w := 2 * math.Pi * f0 * float64(k)
		for i, t := range times {
			out[i] += a * math.Sin(w*t)
		}
	}
	return out
}

// Harmonics evaluates sum(amps[k-1]*sin(2*pi*k*f0*t)) for k = 1..len(amps).
func Harmonics(times []float64, f0 float64, amps []float64) []float64 {
	out := make([]float64, len(times))
	for k, a := range amps {
		if a == 0 {
			continue
		}
		w := 2 * math.Pi * f0 * float64(k+1)
		for i, t := range times {
			out[i] += a * math.Sin(w*t)
		}
	}
	return out
}

// WhiteNoise generates deterministic uniform noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.cfg.Seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// OddComb builds a complete test waveform: an odd-harmonic comb at f0 up to
// maxOrder plus white noise, sampled uniformly for the given duration.
func (g *Generator) OddComb(f0, amplitude float64, maxOrder int, duration, noise float64) (Waveform, error) {
	if f0 <= 0 {
		return Waveform{}, fmt.Errorf("comb fundamental must be > 0: %f", f0)
	}
	if duration <= 0 {
		return Waveform{}, fmt.Errorf("comb duration must be > 0: %f", duration)
	}
	samples := int(math.Round(duration * g.cfg.SampleRate))
	times, err := g.Times(samples)
	if err != nil {
		return Waveform{}, err
	}
	values := OddHarmonics(times, f0, amplitude, maxOrder)
	if noise > 0 {
		n, err := g.WhiteNoise(noise, samples)
		if err != nil {
			return Waveform{}, err
		}
		Add(values, n)
	}
	return Waveform{Time: times, Value: values}, nil
}

// Add accumulates src into dst element-wise over the common length.
func Add(dst, src []float64) {
	n := min(len(dst), len(src))
	floats.Add(dst[:n], src[:n])
}
