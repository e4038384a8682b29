package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-comb/measure/comb"
)

func sampleEntries() []Entry {
	return FromBatch([]comb.BatchResult{
		{
			Name: "V(x8)",
			Report: comb.Report{
				Mode:           comb.ModeOdd,
				FundamentalHz:  10,
				Resolution:     0.2,
				SNRThresholdDB: 10,
				Candidates:     2,
				Teeth: []comb.Tooth{
					{Index: 1, Order: 1, ExpectedHz: 10, MeasuredHz: 10, AmplitudeDB: -3.9, SNRDB: 62, Valid: true},
					{Index: 2, Order: 3, ExpectedHz: 30, MeasuredHz: 30.2, AmplitudeDB: -80, SNRDB: 2.5},
				},
				ValidCount: 1,
				MeanSNRDB:  62,
			},
		},
		{Name: "V(x1)", Err: errors.New("comb: resample: insufficient data")},
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatTable},
		{"TABLE", FormatTable},
		{"json", FormatJSON},
		{"yml", FormatYAML},
		{"parquet", FormatParquet},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("csv"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("ParseFormat(csv) error = %v, want ErrUnknownFormat", err)
	}
	if err := Write(io.Discard, Format("xml"), nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Write(xml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestFromBatch(t *testing.T) {
	entries := sampleEntries()
	if entries[0].Report == nil || entries[0].Error != "" {
		t.Fatalf("entry 0 = %+v", entries[0])
	}
	if entries[1].Report != nil || !strings.Contains(entries[1].Error, "insufficient") {
		t.Fatalf("entry 1 = %+v", entries[1])
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatTable, sampleEntries()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Probe V(x8) (odd mode, f0 = 10 Hz",
		"Teeth detected (SNR>10dB): 1 / 2\n",
		"Mean SNR: 62.0 dB\n",
		"Mean spacing error: 0 ppm\n",
		"Probe V(x1): error: comb: resample: insufficient data\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}

	var marked, unmarked bool
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) == 6 && fields[0] == "*" && fields[1] == "1f0":
			marked = true
		case len(fields) == 5 && fields[0] == "3f0":
			unmarked = true
		}
	}
	if !marked || !unmarked {
		t.Fatalf("tooth rows not rendered as expected:\n%s", out)
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteTableReportsWriteError(t *testing.T) {
	errFull := errors.New("device full")
	if err := Write(failingWriter{errFull}, FormatTable, sampleEntries()); !errors.Is(err, errFull) {
		t.Fatalf("Write() error = %v, want %v", err, errFull)
	}
	if err := Write(failingWriter{errFull}, FormatTable, sampleEntries()[:1]); !errors.Is(err, errFull) {
		t.Fatalf("Write() single report error = %v, want %v", err, errFull)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleEntries()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got []struct {
		Probe  string `json:"probe"`
		Error  string `json:"error"`
		Report *struct {
			Mode  string `json:"mode"`
			Teeth []struct {
				Order int  `json:"order"`
				Valid bool `json:"valid"`
			} `json:"teeth"`
			ValidCount int `json:"valid_count"`
		} `json:"report"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(got) != 2 || got[0].Report == nil || got[0].Report.Mode != "odd" || got[0].Report.Teeth[1].Order != 3 {
		t.Fatalf("decoded = %+v", got)
	}
	if got[1].Report != nil || got[1].Error == "" {
		t.Fatalf("error entry = %+v", got[1])
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sampleEntries()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got []Entry
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if len(got) != 2 || got[0].Report == nil {
		t.Fatalf("decoded = %+v", got)
	}
	r := got[0].Report
	if r.Mode != comb.ModeOdd || r.ValidCount != 1 || len(r.Teeth) != 2 || r.Teeth[1].MeasuredHz != 30.2 {
		t.Fatalf("report = %+v", r)
	}
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatParquet, sampleEntries()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	pr := parquet.NewGenericReader[ToothRow](bytes.NewReader(buf.Bytes()))
	defer pr.Close()

	rows := make([]ToothRow, 4)
	n, err := pr.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("parquet read error = %v", err)
	}
	if n != 2 {
		t.Fatalf("read %d rows, want 2", n)
	}
	if rows[0].Probe != "V(x8)" || rows[0].Mode != "odd" || !rows[0].Valid || rows[1].Order != 3 || rows[1].Valid {
		t.Fatalf("rows = %+v", rows[:n])
	}
}
