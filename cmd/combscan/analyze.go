package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-comb/configs"
	"github.com/cwbudde/algo-comb/internal/export"
	"github.com/cwbudde/algo-comb/internal/logging"
	"github.com/cwbudde/algo-comb/internal/source"
	"github.com/cwbudde/algo-comb/internal/waveform"
	"github.com/cwbudde/algo-comb/measure/comb"
)

var (
	analyzeLCCutoff string
	analyzeOutFile  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <waveform> [waveform ...]",
	Short: "Measure comb teeth, SNR, flatness and spacing error",
	Long: `Analyze loads each waveform, discards the start-up transient, resamples
the steady state onto a uniform grid and searches the windowed spectrum for
teeth at multiples of the fundamental (full mode) or at odd multiples of it
(odd mode).

Each selected probe column is analyzed independently and in parallel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	f := analyzeCmd.Flags()
	f.Float64P("fundamental", "f", 0, "comb spacing unit in Hz (drive frequency, or f0 in odd mode)")
	f.String("mode", "full", "harmonic mode (full, odd)")
	f.Int("resample-count", comb.DefaultResampleCount, "uniform grid length")
	f.Float64("settle-fraction", comb.DefaultSettleFraction, "leading share of the record discarded as transient")
	f.String("window", "hann", "spectral window")
	f.String("search-width-mode", "fraction", "search half-width mode (fraction, absolute)")
	f.Float64("search-width-hz", 0, "search half-width in Hz for absolute mode")
	f.Float64("search-width-fraction", comb.DefaultSearchWidthFraction, "search half-width as a fraction of the fundamental")
	f.String("noise-mode", "local", "noise reference (local, global)")
	f.Float64("exclusion-bins", comb.DefaultExclusionBins, "bins around a peak excluded from its local noise")
	f.Float64("snr-threshold", comb.DefaultSNRThresholdDB, "SNR in dB a tooth must exceed to be valid")
	f.String("normalization", "default", "magnitude normalization (default, 1/N, 2/N)")
	f.String("backend", "algofft", "FFT backend (algofft, gonum, godsp)")
	f.Int("max-harmonic", 0, "highest multiple of the fundamental searched (0 = no limit)")
	f.Float64("max-frequency", 0, "highest expected tooth frequency in Hz (0 = Nyquist)")
	f.StringVar(&analyzeLCCutoff, "lc-cutoff", "", "limit the search to 1.5x the LC ladder cutoff, given as L,C")
	f.StringSlice("probe", nil, "probe column to analyze, repeatable (default: last column)")
	f.Bool("all-probes", false, "analyze every probe column")
	f.Int("workers", 0, "concurrent probe analyses (0 = GOMAXPROCS)")
	f.String("s3-region", "", "AWS region for s3:// inputs")
	f.String("s3-endpoint", "", "S3-compatible endpoint for s3:// inputs")
	f.String("s3-profile", "", "shared AWS config profile for s3:// inputs")
	f.String("s3-role-arn", "", "IAM role assumed through STS for s3:// inputs")
	f.StringVar(&analyzeOutFile, "out", "", "write the report to a file instead of stdout")

	for name, key := range map[string]string{
		"fundamental":           "analysis.fundamental_hz",
		"mode":                  "analysis.mode",
		"resample-count":        "analysis.resample_count",
		"settle-fraction":       "analysis.settle_fraction",
		"window":                "analysis.window",
		"search-width-mode":     "analysis.search_width_mode",
		"search-width-hz":       "analysis.search_width_hz",
		"search-width-fraction": "analysis.search_width_fraction",
		"noise-mode":            "analysis.noise_mode",
		"exclusion-bins":        "analysis.exclusion_bins",
		"snr-threshold":         "analysis.snr_threshold_db",
		"normalization":         "analysis.normalization",
		"backend":               "analysis.backend",
		"max-harmonic":          "analysis.max_harmonic",
		"max-frequency":         "analysis.max_frequency_hz",
		"probe":                 "probes",
		"all-probes":            "all_probes",
		"workers":               "workers",
		"s3-region":             "source.region",
		"s3-endpoint":           "source.endpoint",
		"s3-profile":            "source.profile",
		"s3-role-arn":           "source.role_arn",
	} {
		bindKey(key, f.Lookup(name))
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	appConfig, err := configs.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if analyzeLCCutoff != "" {
		l, c, err := parseLC(analyzeLCCutoff)
		if err != nil {
			return err
		}
		appConfig.Analysis.LC.InductanceH = l
		appConfig.Analysis.LC.CapacitanceF = c
	}
	if err := configs.Validate(appConfig); err != nil {
		return err
	}
	format, err := export.ParseFormat(appConfig.OutputFormat)
	if err != nil {
		return err
	}

	log, err := logging.New(appConfig.LogLevel, appConfig.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := appConfig.Analysis.Comb()
	if err != nil {
		return err
	}
	log.Debug("configuration loaded",
		zap.String("config", viper.ConfigFileUsed()),
		zap.Stringer("mode", cfg.Mode),
		zap.Float64("fundamental_hz", cfg.FundamentalHz),
		zap.Stringer("window", cfg.Window),
		zap.Float64("half_width_hz", cfg.HalfWidthHz()),
		zap.Float64("max_frequency_hz", cfg.MaxFrequencyHz),
	)

	opener := source.New(
		source.WithRegion(appConfig.Source.Region),
		source.WithEndpoint(appConfig.Source.Endpoint),
		source.WithProfile(appConfig.Source.Profile),
		source.WithAssumeRole(appConfig.Source.RoleARN),
	)

	ctx := cmd.Context()
	var entries []export.Entry
	for _, uri := range args {
		start := time.Now()
		file, err := waveform.Load(ctx, opener, uri)
		if err != nil {
			return err
		}
		probes, err := file.Probes(appConfig.Probes, appConfig.AllProbes)
		if err != nil {
			return fmt.Errorf("%s: %w", uri, err)
		}
		log.Info("waveform loaded",
			zap.String("uri", uri),
			zap.Int("samples", len(file.Time)),
			zap.Int("probes", len(probes)),
			zap.Duration("elapsed", time.Since(start)),
		)

		results, err := comb.AnalyzeBatch(ctx, cfg, probes,
			comb.WithWorkers(appConfig.Workers),
			comb.WithLogger(log.With(zap.String("uri", uri))),
		)
		if err != nil {
			return err
		}
		if len(args) > 1 {
			for i := range results {
				results[i].Name = uri + ":" + results[i].Name
			}
		}
		entries = append(entries, export.FromBatch(results)...)
	}

	out := cmd.OutOrStdout()
	if analyzeOutFile != "" {
		fh, err := os.Create(analyzeOutFile)
		if err != nil {
			return err
		}
		defer fh.Close()
		out = fh
	}
	if err := export.Write(out, format, entries); err != nil {
		return err
	}

	return failures(entries, log)
}

func failures(entries []export.Entry, log *zap.Logger) error {
	failed := 0
	for _, e := range entries {
		if e.Error != "" {
			failed++
			continue
		}
		log.Info("comb summary",
			zap.String("probe", e.Probe),
			zap.Int("valid", e.Report.ValidCount),
			zap.Int("teeth", len(e.Report.Teeth)),
			zap.Float64("flatness_db", e.Report.FlatnessDB),
			zap.Float64("mean_snr_db", e.Report.MeanSNRDB),
		)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d probes failed", failed, len(entries))
	}
	return nil
}

func parseLC(s string) (l, c float64, err error) {
	ls, cs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("lc-cutoff must be L,C: %q", s)
	}
	if l, err = strconv.ParseFloat(strings.TrimSpace(ls), 64); err != nil {
		return 0, 0, fmt.Errorf("lc-cutoff inductance: %w", err)
	}
	if c, err = strconv.ParseFloat(strings.TrimSpace(cs), 64); err != nil {
		return 0, 0, fmt.Errorf("lc-cutoff capacitance: %w", err)
	}
	if !(l > 0) || !(c > 0) {
		return 0, 0, fmt.Errorf("lc-cutoff values must be > 0: %q", s)
	}
	return l, c, nil
}
