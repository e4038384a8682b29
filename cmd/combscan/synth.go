package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-comb/dsp/core"
	"github.com/cwbudde/algo-comb/dsp/signal"
	"github.com/cwbudde/algo-comb/internal/source"
	"github.com/cwbudde/algo-comb/internal/waveform"
)

var (
	synthF0         float64
	synthAmplitude  float64
	synthMaxOrder   int
	synthDuration   float64
	synthSampleRate float64
	synthNoise      float64
	synthJitter     float64
	synthSeed       int64
	synthProbe      string
)

var synthCmd = &cobra.Command{
	Use:   "synth [flags] <output>",
	Short: "Write a synthetic odd-harmonic comb waveform",
	Long: `Synth writes a square-wave-like comb (odd harmonics of f0 with 1/n
amplitudes) plus uniform noise as a text waveform. A non-zero jitter varies
the time steps the way an adaptive transient solver does.

The output is compressed when its name ends in .gz, .zst or .lz4; "-"
writes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	rootCmd.AddCommand(synthCmd)

	synthCmd.Flags().Float64Var(&synthF0, "f0", 10, "fundamental in Hz")
	synthCmd.Flags().Float64Var(&synthAmplitude, "amplitude", 1, "square-wave amplitude")
	synthCmd.Flags().IntVar(&synthMaxOrder, "max-order", 9, "highest odd harmonic order")
	synthCmd.Flags().Float64Var(&synthDuration, "duration", 10, "record length in seconds")
	synthCmd.Flags().Float64Var(&synthSampleRate, "sample-rate", 1000, "nominal sample rate in Hz")
	synthCmd.Flags().Float64Var(&synthNoise, "noise", 0.01, "uniform noise amplitude")
	synthCmd.Flags().Float64Var(&synthJitter, "jitter", 0, "time step jitter as a fraction of the nominal step, in [0,1)")
	synthCmd.Flags().Int64Var(&synthSeed, "seed", 1, "noise and jitter seed")
	synthCmd.Flags().StringVar(&synthProbe, "probe", "V(x8)", "probe column name")
}

func runSynth(cmd *cobra.Command, args []string) error {
	w, err := synthesize()
	if err != nil {
		return err
	}
	file := &waveform.File{
		Names:   []string{synthProbe},
		Time:    w.Time,
		Columns: [][]float64{w.Value},
	}

	if args[0] == "-" {
		return waveform.Write(cmd.OutOrStdout(), file)
	}
	out, err := source.Create(args[0])
	if err != nil {
		return err
	}
	if err := waveform.Write(out, file); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d samples to %s\n", w.Len(), args[0])
	return nil
}

func synthesize() (signal.Waveform, error) {
	g := signal.NewGenerator(core.WithSampleRate(synthSampleRate), core.WithSeed(synthSeed))
	if synthJitter == 0 {
		return g.OddComb(synthF0, synthAmplitude, synthMaxOrder, synthDuration, synthNoise)
	}
	if !(synthF0 > 0) || !(synthDuration > 0) {
		return signal.Waveform{}, fmt.Errorf("f0 and duration must be > 0")
	}

	times, err := g.JitteredTimes(int(synthDuration*synthSampleRate+0.5), synthJitter)
	if err != nil {
		return signal.Waveform{}, err
	}
	values := signal.OddHarmonics(times, synthF0, synthAmplitude, synthMaxOrder)
	if synthNoise > 0 {
		noise, err := g.WhiteNoise(synthNoise, len(times))
		if err != nil {
			return signal.Waveform{}, err
		}
		signal.Add(values, noise)
	}
	return signal.Waveform{Time: times, Value: values}, nil
}
