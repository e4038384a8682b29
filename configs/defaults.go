package configs

import (
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-comb/measure/comb"
)

// SetDefaults registers default configuration values on v.
func SetDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("output_format", "table")
	v.SetDefault("workers", 0)

	// Analysis defaults
	v.SetDefault("analysis.mode", "full")
	v.SetDefault("analysis.resample_count", comb.DefaultResampleCount)
	v.SetDefault("analysis.settle_fraction", comb.DefaultSettleFraction)
	v.SetDefault("analysis.window", "hann")
	v.SetDefault("analysis.search_width_mode", "fraction")
	v.SetDefault("analysis.search_width_fraction", comb.DefaultSearchWidthFraction)
	v.SetDefault("analysis.noise_mode", "local")
	v.SetDefault("analysis.exclusion_bins", comb.DefaultExclusionBins)
	v.SetDefault("analysis.snr_threshold_db", comb.DefaultSNRThresholdDB)
	v.SetDefault("analysis.normalization", "default")
	v.SetDefault("analysis.backend", "algofft")
	v.SetDefault("analysis.epsilon", 1e-15)
	v.SetDefault("analysis.lc.factor", 1.5)
}
