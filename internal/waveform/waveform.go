// Package waveform reads and writes columnar text waveforms: a time column
// followed by one column per probe voltage, as exported by transient
// circuit simulators.
package waveform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-comb/dsp/signal"
	"github.com/cwbudde/algo-comb/internal/source"
	"github.com/cwbudde/algo-comb/measure/comb"
)

var (
	// ErrNoData indicates an input without data rows or probe columns.
	ErrNoData = errors.New("waveform: no data")
	// ErrMalformed indicates an unparsable row.
	ErrMalformed = errors.New("waveform: malformed row")
	// ErrUnknownProbe indicates a probe name not present in the file.
	ErrUnknownProbe = errors.New("waveform: unknown probe")
)

const maxLine = 1 << 20

// File is a decoded multi-probe waveform. All probes share Time.
type File struct {
	Names   []string
	Time    []float64
	Columns [][]float64
}

// Read decodes whitespace- or comma-separated columns. Lines starting with
// '#' or ';' are comments. A first row whose leading field is not a number
// is taken as the header; without one, probes are named col1, col2, ...
func Read(r io.Reader) (*File, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	f := &File{}
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' || text[0] == ';' {
			continue
		}
		fields := split(text)

		if f.Names == nil {
			if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
				if len(fields) < 2 {
					return nil, fmt.Errorf("%w: header at line %d has no probe columns", ErrNoData, line)
				}
				f.Names = append([]string(nil), fields[1:]...)
				f.Columns = make([][]float64, len(f.Names))
				continue
			}
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: line %d has no probe columns", ErrNoData, line)
			}
			f.Names = make([]string, len(fields)-1)
			for i := range f.Names {
				f.Names[i] = "col" + strconv.Itoa(i+1)
			}
			f.Columns = make([][]float64, len(f.Names))
		}

		if len(fields) != len(f.Names)+1 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrMalformed, line, len(fields), len(f.Names)+1)
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		f.Time = append(f.Time, t)
		for i, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %w", ErrMalformed, line, i+2, err)
			}
			f.Columns[i] = append(f.Columns[i], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("waveform: read: %w", err)
	}
	if len(f.Time) == 0 {
		return nil, ErrNoData
	}
	return f, nil
}

// Load opens uri through o and decodes it.
func Load(ctx context.Context, o *source.Opener, uri string) (*File, error) {
	rc, err := o.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	f, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}
	return f, nil
}

func split(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// Waveform returns the named probe. Names match case-insensitively, and a
// bare node name ("x8") matches its voltage column ("V(x8)"). An empty name
// selects the last column.
func (f *File) Waveform(name string) (signal.Waveform, error) {
	i, err := f.index(name)
	if err != nil {
		return signal.Waveform{}, err
	}
	return signal.Waveform{Time: f.Time, Value: f.Columns[i]}, nil
}

func (f *File) index(name string) (int, error) {
	if len(f.Names) == 0 {
		return 0, ErrNoData
	}
	if name == "" {
		return len(f.Names) - 1, nil
	}
	for i, n := range f.Names {
		if strings.EqualFold(n, name) || strings.EqualFold(n, "V("+name+")") {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (have %s)", ErrUnknownProbe, name, strings.Join(f.Names, ", "))
}

// Probes returns the named probes in the order given, or every column when
// all is set. With no names and all unset, the last column is returned.
func (f *File) Probes(names []string, all bool) ([]comb.Probe, error) {
	if all {
		out := make([]comb.Probe, len(f.Names))
		for i, n := range f.Names {
			out[i] = comb.Probe{Name: n, Waveform: signal.Waveform{Time: f.Time, Value: f.Columns[i]}}
		}
		return out, nil
	}
	if len(names) == 0 {
		names = []string{""}
	}

	out := make([]comb.Probe, 0, len(names))
	for _, n := range names {
		i, err := f.index(n)
		if err != nil {
			return nil, err
		}
		out = append(out, comb.Probe{Name: f.Names[i], Waveform: signal.Waveform{Time: f.Time, Value: f.Columns[i]}})
	}
	return out, nil
}

// Write encodes f with a "Time <names>" header and tab-separated columns.
func Write(w io.Writer, f *File) error {
	if len(f.Names) != len(f.Columns) {
		return fmt.Errorf("%w: %d names for %d columns", ErrMalformed, len(f.Names), len(f.Columns))
	}
	for i, c := range f.Columns {
		if len(c) != len(f.Time) {
			return fmt.Errorf("%w: column %q has %d samples, time has %d", ErrMalformed, f.Names[i], len(c), len(f.Time))
		}
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("Time")
	for _, n := range f.Names {
		bw.WriteByte('\t')
		bw.WriteString(n)
	}
	bw.WriteByte('\n')

	buf := make([]byte, 0, 32)
	for k, t := range f.Time {
		bw.Write(strconv.AppendFloat(buf[:0], t, 'g', -1, 64))
		for _, c := range f.Columns {
			bw.WriteByte('\t')
			bw.Write(strconv.AppendFloat(buf[:0], c[k], 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
