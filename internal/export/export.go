// Package export renders comb reports as a text table, JSON, YAML or a
// Parquet tooth table.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-comb/measure/comb"
)

// ErrUnknownFormat indicates an output format name that is not supported.
var ErrUnknownFormat = errors.New("export: unknown format")

// Format selects the output encoding.
type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatParquet:
		return f, nil
	case "", "text":
		return FormatTable, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Entry is one analyzed probe. Exactly one of Report and Error is set.
type Entry struct {
	Probe  string       `json:"probe" yaml:"probe"`
	Report *comb.Report `json:"report,omitempty" yaml:"report,omitempty"`
	Error  string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// FromBatch converts batch results into entries, keeping their order.
func FromBatch(results []comb.BatchResult) []Entry {
	out := make([]Entry, len(results))
	for i, r := range results {
		out[i].Probe = r.Name
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		rep := r.Report
		out[i].Report = &rep
	}
	return out
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, format Format, entries []Entry) error {
	switch format {
	case FormatTable:
		return writeTable(w, entries)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case FormatParquet:
		return writeParquet(w, entries)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// writeTable buffers the whole table; bufio.Writer keeps the first write
// error and reports it from Flush.
func writeTable(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		if e.Report == nil {
			fmt.Fprintf(bw, "Probe %s: error: %s\n", e.Probe, e.Error)
			continue
		}
		writeReport(bw, e.Probe, e.Report)
	}
	return bw.Flush()
}

func writeReport(w io.Writer, probe string, r *comb.Report) {
	unit := "f"
	if r.Mode == comb.ModeOdd {
		unit = "f0"
	}

	fmt.Fprintf(w, "Probe %s (%s mode, %s = %g Hz, df = %.6g Hz, %.6g..%.6g s)\n",
		probe, r.Mode, unit, r.FundamentalHz, r.Resolution, r.StartTime, r.EndTime)
	if r.Signal.Length > 0 {
		fmt.Fprintf(w, "Segment: %d samples, DC %.4g, RMS %.4g, p-p %.4g\n",
			r.Signal.Length, r.Signal.DC, r.Signal.RMS, r.Signal.PeakToPeak)
	}
	fmt.Fprintf(w, "Teeth detected (SNR>%gdB): %d / %d\n", r.SNRThresholdDB, r.ValidCount, len(r.Teeth))
	fmt.Fprintf(w, "Amplitude flatness: %.1f dB\n", r.FlatnessDB)
	fmt.Fprintf(w, "Mean SNR: %.1f dB\n", r.MeanSNRDB)
	fmt.Fprintf(w, "Mean spacing error: %.0f ppm\n", r.MeanSpacingErrorPPM)
	if len(r.Teeth) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\ttooth\texpected_hz\tmeasured_hz\tamp_db\tsnr_db")
	for _, t := range r.Teeth {
		marker := " "
		if t.Valid {
			marker = "*"
		}
		fmt.Fprintf(tw, "  %s\t%d%s\t%.6f\t%.6f\t%.1f\t%.1f\n",
			marker, t.Order, unit, t.ExpectedHz, t.MeasuredHz, t.AmplitudeDB, t.SNRDB)
	}
	tw.Flush()
}

// ToothRow is the flattened Parquet record, one per tooth.
type ToothRow struct {
	Probe         string  `parquet:"probe"`
	Mode          string  `parquet:"mode"`
	FundamentalHz float64 `parquet:"fundamental_hz"`
	Index         int64   `parquet:"index"`
	Order         int64   `parquet:"order"`
	ExpectedHz    float64 `parquet:"expected_hz"`
	MeasuredHz    float64 `parquet:"measured_hz"`
	AmplitudeDB   float64 `parquet:"amplitude_db"`
	SNRDB         float64 `parquet:"snr_db"`
	Valid         bool    `parquet:"valid"`
}

// Rows flattens the teeth of all successful entries.
func Rows(entries []Entry) []ToothRow {
	var rows []ToothRow
	for _, e := range entries {
		if e.Report == nil {
			continue
		}
		for _, t := range e.Report.Teeth {
			rows = append(rows, ToothRow{
				Probe:         e.Probe,
				Mode:          e.Report.Mode.String(),
				FundamentalHz: e.Report.FundamentalHz,
				Index:         int64(t.Index),
				Order:         int64(t.Order),
				ExpectedHz:    t.ExpectedHz,
				MeasuredHz:    t.MeasuredHz,
				AmplitudeDB:   t.AmplitudeDB,
				SNRDB:         t.SNRDB,
				Valid:         t.Valid,
			})
		}
	}
	return rows
}

func writeParquet(w io.Writer, entries []Entry) error {
	pw := parquet.NewGenericWriter[ToothRow](w, parquet.Compression(&parquet.Zstd))
	if _, err := pw.Write(Rows(entries)); err != nil {
		return fmt.Errorf("export: parquet write: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("export: parquet close: %w", err)
	}
	return nil
}
