package comb

import (
	"testing"

	"github.com/cwbudde/algo-comb/dsp/core"
	"github.com/cwbudde/algo-comb/dsp/signal"
)

func BenchmarkAnalyzeOddComb(b *testing.B) {
	g := signal.NewGenerator(core.WithSampleRate(10000), core.WithSeed(1))
	w, err := g.OddComb(100, 1, 31, 10, 0.01)
	if err != nil {
		b.Fatal(err)
	}
	a, err := NewAnalyzer(DefaultConfig(100, ModeOdd))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.AnalyzeWaveform(w); err != nil {
			b.Fatal(err)
		}
	}
}
