package comb

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-comb/dsp/signal"
)

// Probe is a named waveform, typically one node voltage of a simulation.
type Probe struct {
	Name     string
	Waveform signal.Waveform
}

// BatchResult is the outcome for one probe. Err is set when the probe
// could not be analyzed; the other probes are unaffected.
type BatchResult struct {
	Name   string
	Report Report
	Err    error
}

// BatchOption configures AnalyzeBatch.
type BatchOption func(*batchConfig)

type batchConfig struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers bounds the number of probes analyzed concurrently.
// Values < 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) BatchOption {
	return func(c *batchConfig) {
		c.workers = n
	}
}

// WithLogger logs a summary line per probe at debug level and failures at
// warn level.
func WithLogger(l *zap.Logger) BatchOption {
	return func(c *batchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// AnalyzeBatch analyzes probes concurrently with one shared configuration.
// Results are returned in input order. The returned error is non-nil only
// for an invalid configuration or when ctx is cancelled before all probes
// have been analyzed; skipped probes then carry the context error.
func AnalyzeBatch(ctx context.Context, cfg Config, probes []Probe, opts ...BatchOption) ([]BatchResult, error) {
	bc := batchConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&bc)
		}
	}
	if bc.workers < 1 {
		bc.workers = runtime.GOMAXPROCS(0)
	}

	a, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bc.workers)

	for i, p := range probes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BatchResult{Name: p.Name, Err: err}
				return err
			}

			start := time.Now()
			r, err := a.AnalyzeWaveform(p.Waveform)
			results[i] = BatchResult{Name: p.Name, Report: r, Err: err}

			if err != nil {
				bc.logger.Warn("probe analysis failed", zap.String("probe", p.Name), zap.Error(err))
				return nil
			}
			bc.logger.Debug("probe analyzed",
				zap.String("probe", p.Name),
				zap.Int("samples", p.Waveform.Len()),
				zap.Int("teeth", len(r.Teeth)),
				zap.Int("valid", r.ValidCount),
				zap.Float64("flatness_db", r.FlatnessDB),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
