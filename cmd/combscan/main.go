// Command combscan measures frequency-comb quality in simulated or captured
// waveforms.
//
// Usage:
//
//	combscan analyze [flags] <waveform> [waveform ...]
//	combscan synth [flags] <output>
//	combscan windows [flags] [window-name ...]
//
// Examples:
//
//	combscan analyze -f 0.03 --lc-cutoff 1,1 dauffing.txt
//	combscan analyze --mode odd -f 10 --probe V(x8) -o json run.txt.zst
//	combscan analyze -f 0.03 --all-probes s3://sims/dauffing.txt.gz
//	combscan synth --f0 10 --jitter 0.3 comb.txt.gz
//	combscan windows --size 4096 hann blackman-harris-4t
package main

func main() {
	Execute()
}
