package comb

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-comb/dsp/core"
	"github.com/cwbudde/algo-comb/dsp/resample"
	"github.com/cwbudde/algo-comb/dsp/signal"
	"github.com/cwbudde/algo-comb/dsp/spectrum"
	"github.com/cwbudde/algo-comb/dsp/window"
	"github.com/cwbudde/algo-comb/stats/level"
)

var (
	// ErrInsufficientData indicates a waveform with fewer than 2 samples or
	// a zero time span. It is the resample sentinel, so errors.Is matches
	// either name.
	ErrInsufficientData = resample.ErrInsufficientData
	// ErrInvalidConfig indicates a configuration rejected by Validate.
	ErrInvalidConfig = errors.New("comb: invalid config")
	// ErrUnresolved indicates a fundamental below the frequency resolution
	// of the spectrum, so adjacent teeth would share a bin.
	ErrUnresolved = errors.New("comb: fundamental below frequency resolution")
)

const (
	DefaultResampleCount       = 65536
	DefaultSearchWidthFraction = 0.3
	DefaultSNRThresholdDB      = 10.0
	DefaultExclusionBins       = 3.0
	DefaultSettleFraction      = resample.DefaultSettleFraction
)

// Mode selects which multiples of the fundamental are expected.
type Mode int

const (
	// ModeFull expects teeth at n*f for n = 1, 2, 3, ...
	ModeFull Mode = iota
	// ModeOdd expects teeth at (2n-1)*f for n = 1, 2, 3, ...
	ModeOdd
)

// WidthMode selects how the tooth search half-width is specified.
type WidthMode int

const (
	// WidthFraction uses SearchWidthFraction * FundamentalHz.
	WidthFraction WidthMode = iota
	// WidthAbsolute uses SearchWidthHz.
	WidthAbsolute
)

// NoiseMode selects the reference for per-tooth SNR.
type NoiseMode int

const (
	// NoiseLocal uses the median of the tooth's search window, excluding
	// bins near the peak.
	NoiseLocal NoiseMode = iota
	// NoiseGlobal uses the median of the whole spectrum.
	NoiseGlobal
)

// Config holds comb analysis parameters. Start from [DefaultConfig]; the
// zero value of most fields is a deliberate setting, not "use default".
type Config struct {
	// FundamentalHz is the comb spacing unit: the drive frequency in full
	// mode, the fundamental f0 in odd mode.
	FundamentalHz float64
	Mode          Mode
	// ResampleCount is the uniform grid length N. 0 selects 65536.
	ResampleCount int
	// SettleFraction is the leading share of the record discarded as
	// start-up transient, in [0,1).
	SettleFraction float64
	Window         window.Type

	SearchWidthMode     WidthMode
	SearchWidthHz       float64
	SearchWidthFraction float64

	NoiseMode NoiseMode
	// ExclusionBins is the half-width, in bins, of the band around a peak
	// excluded from its local noise estimate.
	ExclusionBins  float64
	SNRThresholdDB float64

	// Normalization of |X|. NormalizeDefault selects 1/N in full mode and
	// 2/N in odd mode.
	Normalization spectrum.Normalization
	Backend       spectrum.Backend
	// Epsilon is the dB floor added to magnitudes. <= 0 selects 1e-15.
	Epsilon float64

	// MaxHarmonic limits the tooth order (the multiple of FundamentalHz).
	// 0 means no limit.
	MaxHarmonic int
	// MaxFrequencyHz limits expected tooth frequencies. 0 or values above
	// Nyquist select Nyquist.
	MaxFrequencyHz float64
}

// DefaultConfig returns the default configuration for a comb with the
// given spacing unit.
func DefaultConfig(fundamentalHz float64, mode Mode) Config {
	return Config{
		FundamentalHz:       fundamentalHz,
		Mode:                mode,
		ResampleCount:       DefaultResampleCount,
		SettleFraction:      DefaultSettleFraction,
		Window:              window.TypeHann,
		SearchWidthMode:     WidthFraction,
		SearchWidthFraction: DefaultSearchWidthFraction,
		NoiseMode:           NoiseLocal,
		ExclusionBins:       DefaultExclusionBins,
		SNRThresholdDB:      DefaultSNRThresholdDB,
		Normalization:       spectrum.NormalizeDefault,
		Backend:             spectrum.BackendAlgoFFT,
		Epsilon:             core.DefaultDBFloor,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !(c.FundamentalHz > 0) || math.IsInf(c.FundamentalHz, 0):
		return fmt.Errorf("%w: fundamental must be > 0 Hz: %v", ErrInvalidConfig, c.FundamentalHz)
	case c.Mode != ModeFull && c.Mode != ModeOdd:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(c.Mode))
	case c.ResampleCount < 0 || c.ResampleCount == 1:
		return fmt.Errorf("%w: resample count must be >= 2: %d", ErrInvalidConfig, c.ResampleCount)
	case c.SettleFraction < 0 || c.SettleFraction >= 1 || math.IsNaN(c.SettleFraction):
		return fmt.Errorf("%w: settle fraction must be in [0,1): %v", ErrInvalidConfig, c.SettleFraction)
	case window.Info(c.Window).Name == "":
		return fmt.Errorf("%w: unknown window %d", ErrInvalidConfig, int(c.Window))
	case c.NoiseMode != NoiseLocal && c.NoiseMode != NoiseGlobal:
		return fmt.Errorf("%w: unknown noise mode %d", ErrInvalidConfig, int(c.NoiseMode))
	case c.ExclusionBins < 0 || math.IsNaN(c.ExclusionBins):
		return fmt.Errorf("%w: exclusion bins must be >= 0: %v", ErrInvalidConfig, c.ExclusionBins)
	case math.IsNaN(c.SNRThresholdDB):
		return fmt.Errorf("%w: snr threshold is NaN", ErrInvalidConfig)
	case c.MaxHarmonic < 0:
		return fmt.Errorf("%w: max harmonic must be >= 0: %d", ErrInvalidConfig, c.MaxHarmonic)
	case c.MaxFrequencyHz < 0 || math.IsNaN(c.MaxFrequencyHz):
		return fmt.Errorf("%w: max frequency must be >= 0: %v", ErrInvalidConfig, c.MaxFrequencyHz)
	}

	switch c.SearchWidthMode {
	case WidthFraction:
		if !(c.SearchWidthFraction > 0) {
			return fmt.Errorf("%w: search width fraction must be > 0: %v", ErrInvalidConfig, c.SearchWidthFraction)
		}
	case WidthAbsolute:
		if !(c.SearchWidthHz > 0) {
			return fmt.Errorf("%w: search width must be > 0 Hz: %v", ErrInvalidConfig, c.SearchWidthHz)
		}
	default:
		return fmt.Errorf("%w: unknown search width mode %d", ErrInvalidConfig, int(c.SearchWidthMode))
	}

	if _, err := spectrum.ParseBackend(c.Backend.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// HalfWidthHz returns the tooth search half-width in Hz.
func (c Config) HalfWidthHz() float64 {
	if c.SearchWidthMode == WidthAbsolute {
		return c.SearchWidthHz
	}
	return c.SearchWidthFraction * c.FundamentalHz
}

// Order returns the multiple of FundamentalHz for harmonic index n >= 1.
func (c Config) Order(n int) int {
	if c.Mode == ModeOdd {
		return 2*n - 1
	}
	return n
}

func (c Config) estimator() spectrum.Estimator {
	norm := c.Normalization
	if norm == spectrum.NormalizeDefault {
		norm = spectrum.NormalizeOneOverN
		if c.Mode == ModeOdd {
			norm = spectrum.NormalizeTwoOverN
		}
	}
	return spectrum.Estimator{
		Window:        c.Window,
		Normalization: norm,
		Backend:       c.Backend,
		Epsilon:       c.Epsilon,
	}
}

func (c Config) resampleCount() int {
	if c.ResampleCount == 0 {
		return DefaultResampleCount
	}
	return c.ResampleCount
}

// Analyzer runs the comb pipeline with a fixed, validated configuration.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer validates cfg and returns an Analyzer.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze is a one-shot analysis of a captured waveform.
func Analyze(w signal.Waveform, cfg Config) (Report, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return Report{}, err
	}
	return a.AnalyzeWaveform(w)
}

// AnalyzeWaveform trims the start-up transient, resamples the remainder
// onto the uniform grid and analyzes it.
func (a *Analyzer) AnalyzeWaveform(w signal.Waveform) (Report, error) {
	ss, err := resample.SteadyState(w, a.cfg.SettleFraction)
	if err != nil {
		return Report{}, fmt.Errorf("comb: steady state: %w", err)
	}
	u, err := resample.Uniform(ss, a.cfg.resampleCount())
	if err != nil {
		return Report{}, fmt.Errorf("comb: resample: %w", err)
	}
	return a.Analyze(u)
}

// Analyze estimates the spectrum of a uniform series and analyzes it.
func (a *Analyzer) Analyze(u resample.UniformSeries) (Report, error) {
	stats := level.Calculate(u.Values)
	spec, err := a.cfg.estimator().Estimate(u)
	if err != nil {
		return Report{}, fmt.Errorf("comb: spectrum: %w", err)
	}
	r, err := a.AnalyzeSpectrum(spec)
	if err != nil {
		return Report{}, err
	}
	r.StartTime, r.EndTime = u.Start, u.End()
	r.Signal = stats
	return r, nil
}

// AnalyzeSpectrum detects and scores teeth in an already estimated
// spectrum. It fails with ErrUnresolved when the fundamental is below the
// spectrum resolution.
func (a *Analyzer) AnalyzeSpectrum(spec spectrum.Spectrum) (Report, error) {
	if a.cfg.FundamentalHz < spec.Resolution {
		return Report{}, fmt.Errorf("%w: %v Hz < %v Hz", ErrUnresolved, a.cfg.FundamentalHz, spec.Resolution)
	}
	expected := ExpectedTeeth(a.cfg, spec.Nyquist())
	teeth, metrics := Evaluate(spec, DetectTeeth(spec, expected, a.cfg.HalfWidthHz()), a.cfg)

	r := BuildReport(teeth, metrics)
	r.Mode = a.cfg.Mode
	r.NoiseMode = a.cfg.NoiseMode
	r.FundamentalHz = a.cfg.FundamentalHz
	r.Resolution = spec.Resolution
	r.SampleRate = spec.SampleRate
	r.Candidates = len(expected)
	r.SNRThresholdDB = a.cfg.SNRThresholdDB
	return r, nil
}

// LCCutoffHz returns the cutoff 1/(pi*sqrt(L*C)) of an LC ladder section
// with inductance l (H) and capacitance c (F), or 0 for non-positive input.
func LCCutoffHz(l, c float64) float64 {
	if !(l > 0) || !(c > 0) {
		return 0
	}
	return 1 / (math.Pi * math.Sqrt(l*c))
}

var (
	modeNames      = []string{"full", "odd"}
	widthModeNames = []string{"fraction", "absolute"}
	noiseModeNames = []string{"local", "global"}
)

func enumString(names []string, v int, kind string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func enumParse(names []string, s, kind string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, kind, s)
}

func (m Mode) String() string { return enumString(modeNames, int(m), "mode") }

// ParseMode accepts "full" or "odd".
func ParseMode(s string) (Mode, error) {
	v, err := enumParse(modeNames, s, "mode")
	return Mode(v), err
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err == nil {
		*m = v
	}
	return err
}

func (m WidthMode) String() string { return enumString(widthModeNames, int(m), "width") }

// ParseWidthMode accepts "fraction" or "absolute".
func ParseWidthMode(s string) (WidthMode, error) {
	v, err := enumParse(widthModeNames, s, "search width mode")
	return WidthMode(v), err
}

// MarshalText implements encoding.TextMarshaler.
func (m WidthMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *WidthMode) UnmarshalText(text []byte) error {
	v, err := ParseWidthMode(string(text))
	if err == nil {
		*m = v
	}
	return err
}

func (m NoiseMode) String() string { return enumString(noiseModeNames, int(m), "noise") }

// ParseNoiseMode accepts "local" or "global".
func ParseNoiseMode(s string) (NoiseMode, error) {
	v, err := enumParse(noiseModeNames, s, "noise mode")
	return NoiseMode(v), err
}

// MarshalText implements encoding.TextMarshaler.
func (m NoiseMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NoiseMode) UnmarshalText(text []byte) error {
	v, err := ParseNoiseMode(string(text))
	if err == nil {
		*m = v
	}
	return err
}
