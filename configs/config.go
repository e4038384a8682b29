package configs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cwbudde/algo-comb/dsp/spectrum"
	"github.com/cwbudde/algo-comb/dsp/window"
	"github.com/cwbudde/algo-comb/measure/comb"
)

// ErrInvalid indicates a configuration rejected by Validate.
var ErrInvalid = errors.New("configs: invalid configuration")

// Config represents the application configuration
type Config struct {
	// Application settings
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	OutputFormat string `mapstructure:"output_format"`
	Workers      int    `mapstructure:"workers"`

	// Probes selects waveform columns by name. Empty selects the last column.
	Probes []string `mapstructure:"probes"`
	// AllProbes analyzes every column of the input.
	AllProbes bool `mapstructure:"all_probes"`

	Analysis AnalysisConfig `mapstructure:"analysis"`
	Source   SourceConfig   `mapstructure:"source"`
}

// AnalysisConfig mirrors comb.Config with text enums.
type AnalysisConfig struct {
	Mode                string  `mapstructure:"mode"`
	FundamentalHz       float64 `mapstructure:"fundamental_hz"`
	ResampleCount       int     `mapstructure:"resample_count"`
	SettleFraction      float64 `mapstructure:"settle_fraction"`
	Window              string  `mapstructure:"window"`
	SearchWidthMode     string  `mapstructure:"search_width_mode"`
	SearchWidthHz       float64 `mapstructure:"search_width_hz"`
	SearchWidthFraction float64 `mapstructure:"search_width_fraction"`
	NoiseMode           string  `mapstructure:"noise_mode"`
	ExclusionBins       float64 `mapstructure:"exclusion_bins"`
	SNRThresholdDB      float64 `mapstructure:"snr_threshold_db"`
	Normalization       string  `mapstructure:"normalization"`
	Backend             string  `mapstructure:"backend"`
	Epsilon             float64 `mapstructure:"epsilon"`
	MaxHarmonic         int     `mapstructure:"max_harmonic"`
	MaxFrequencyHz      float64 `mapstructure:"max_frequency_hz"`

	LC LCConfig `mapstructure:"lc"`
}

// LCConfig derives the search limit from an LC ladder cutoff when
// MaxFrequencyHz is unset.
type LCConfig struct {
	InductanceH  float64 `mapstructure:"inductance_h"`
	CapacitanceF float64 `mapstructure:"capacitance_f"`
	Factor       float64 `mapstructure:"factor"`
}

// SourceConfig contains remote input settings
type SourceConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Profile  string `mapstructure:"profile"`
	RoleARN  string `mapstructure:"role_arn"`
}

// Load applies defaults to v and decodes it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	return config, nil
}

// Validate checks application settings and the analysis section.
func Validate(config *Config) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, config.LogLevel)
	}
	switch strings.ToLower(config.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, config.LogFormat)
	}
	switch strings.ToLower(config.OutputFormat) {
	case "table", "json", "yaml", "parquet":
	default:
		return fmt.Errorf("%w: output format %q", ErrInvalid, config.OutputFormat)
	}
	if config.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrInvalid)
	}

	cfg, err := config.Analysis.Comb()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Comb converts the analysis section into a comb.Config.
func (a AnalysisConfig) Comb() (comb.Config, error) {
	mode, err := comb.ParseMode(a.Mode)
	if err != nil {
		return comb.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg := comb.DefaultConfig(a.FundamentalHz, mode)

	if cfg.Window, err = window.ParseType(a.Window); err != nil {
		return comb.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if cfg.SearchWidthMode, err = comb.ParseWidthMode(a.SearchWidthMode); err != nil {
		return comb.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if cfg.NoiseMode, err = comb.ParseNoiseMode(a.NoiseMode); err != nil {
		return comb.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if cfg.Normalization, err = spectrum.ParseNormalization(a.Normalization); err != nil {
		return comb.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if cfg.Backend, err = spectrum.ParseBackend(a.Backend); err != nil {
		return comb.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	cfg.ResampleCount = a.ResampleCount
	cfg.SettleFraction = a.SettleFraction
	cfg.SearchWidthHz = a.SearchWidthHz
	cfg.SearchWidthFraction = a.SearchWidthFraction
	cfg.ExclusionBins = a.ExclusionBins
	cfg.SNRThresholdDB = a.SNRThresholdDB
	cfg.Epsilon = a.Epsilon
	cfg.MaxHarmonic = a.MaxHarmonic
	cfg.MaxFrequencyHz = a.MaxFrequencyHz
	if cfg.MaxFrequencyHz == 0 {
		cfg.MaxFrequencyHz = a.LC.Factor * comb.LCCutoffHz(a.LC.InductanceH, a.LC.CapacitanceF)
	}
	return cfg, nil
}
