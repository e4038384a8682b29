package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-comb/dsp/window"
)

var (
	windowsSize     int
	windowsAlpha    float64
	windowsPeriodic bool
	windowsList     bool
)

var windowsCmd = &cobra.Command{
	Use:   "windows [flags] [window-name ...]",
	Short: "Print spectral properties of the analysis windows",
	Long: `Windows evaluates each window's transform numerically and prints its
coherent gain, equivalent noise bandwidth, 3 dB bandwidth, first null,
highest sidelobe and scallop loss. Without arguments all windows are shown.

The ENBW and first null bound the usable search width and noise exclusion
of the comb analysis.`,
	RunE: runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)

	windowsCmd.Flags().IntVar(&windowsSize, "size", 1024, "window length in samples")
	windowsCmd.Flags().Float64Var(&windowsAlpha, "alpha", -1, "beta (kaiser) or taper ratio (tukey); negative keeps the default")
	windowsCmd.Flags().BoolVar(&windowsPeriodic, "periodic", false, "use the periodic (FFT) form instead of the symmetric one")
	windowsCmd.Flags().BoolVar(&windowsList, "list", false, "list available window names")
}

func runWindows(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if windowsList {
		names := window.Names()
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}
	if windowsSize < 2 {
		return fmt.Errorf("window size must be >= 2: %d", windowsSize)
	}

	types := window.Types()
	if len(args) > 0 {
		types = types[:0:0]
		for _, name := range args {
			t, err := window.ParseType(name)
			if err != nil {
				return err
			}
			types = append(types, t)
		}
	}

	opts := []window.Option{window.WithAlpha(windowsAlpha)}
	if windowsPeriodic {
		opts = append(opts, window.WithPeriodic())
	}
	return printWindows(out, types, windowsSize, opts)
}

func printWindows(w io.Writer, types []window.Type, size int, opts []window.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tBW 3dB [bins]\tSidelobe [dB]\t1st Null [bins]\tScallop [dB]\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t-------------\t-------------\t---------------\t------------\n")

	for _, t := range types {
		a := window.Analyze(window.Generate(t, size, opts...))
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\t%.2f\t%.4f\t%.4f\n",
			t,
			size,
			a.CoherentGain,
			a.ENBW,
			a.Bandwidth3dB,
			a.HighestSidelobedB,
			a.FirstNullBins,
			a.ScallopLossdB,
		)
	}
	return tw.Flush()
}
