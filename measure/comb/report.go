package comb

import "github.com/cwbudde/algo-comb/stats/level"

// Tooth is one detected comb line.
type Tooth struct {
	// Index is the harmonic index n, starting at 1.
	Index int `json:"index" yaml:"index"`
	// Order is the multiple of the fundamental the tooth sits at.
	Order       int     `json:"order" yaml:"order"`
	ExpectedHz  float64 `json:"expected_hz" yaml:"expected_hz"`
	MeasuredHz  float64 `json:"measured_hz" yaml:"measured_hz"`
	AmplitudeDB float64 `json:"amplitude_db" yaml:"amplitude_db"`
	SNRDB       float64 `json:"snr_db" yaml:"snr_db"`
	Valid       bool    `json:"valid" yaml:"valid"`
}

// Report is the result of one comb analysis. Teeth are ordered by Index.
type Report struct {
	Mode          Mode      `json:"mode" yaml:"mode"`
	NoiseMode     NoiseMode `json:"noise_mode" yaml:"noise_mode"`
	FundamentalHz float64   `json:"fundamental_hz" yaml:"fundamental_hz"`
	Resolution    float64   `json:"resolution_hz" yaml:"resolution_hz"`
	SampleRate    float64   `json:"sample_rate_hz" yaml:"sample_rate_hz"`
	StartTime     float64   `json:"start_s" yaml:"start_s"`
	EndTime       float64   `json:"end_s" yaml:"end_s"`
	// Signal describes the analyzed steady-state segment.
	Signal level.Stats `json:"signal" yaml:"signal"`
	// Candidates is the number of expected teeth searched for.
	Candidates     int     `json:"candidates" yaml:"candidates"`
	SNRThresholdDB float64 `json:"snr_threshold_db" yaml:"snr_threshold_db"`

	Teeth               []Tooth `json:"teeth" yaml:"teeth"`
	ValidCount          int     `json:"valid_count" yaml:"valid_count"`
	FlatnessDB          float64 `json:"flatness_db" yaml:"flatness_db"`
	MeanSNRDB           float64 `json:"mean_snr_db" yaml:"mean_snr_db"`
	MeanSpacingErrorPPM float64 `json:"mean_spacing_error_ppm" yaml:"mean_spacing_error_ppm"`
}

// BuildReport packages scored teeth and their aggregates. It performs no
// computation and keeps the order of teeth.
func BuildReport(teeth []Tooth, m Metrics) Report {
	if teeth == nil {
		teeth = []Tooth{}
	}
	return Report{
		Teeth:               teeth,
		ValidCount:          m.ValidCount,
		FlatnessDB:          m.FlatnessDB,
		MeanSNRDB:           m.MeanSNRDB,
		MeanSpacingErrorPPM: m.MeanSpacingErrorPPM,
	}
}

// ValidTeeth returns the teeth marked valid, in order.
func (r Report) ValidTeeth() []Tooth {
	var out []Tooth
	for _, t := range r.Teeth {
		if t.Valid {
			out = append(out, t)
		}
	}
	return out
}
