// Package resample converts non-uniformly sampled waveforms into uniform
// series suitable for FFT analysis.
//
// Common workflows:
//   - SteadyState(w, fraction) drops the settling transient at the start
//   - Uniform(w, n) linearly interpolates onto n equally spaced points
//     spanning [t_min, t_max] of the input
//
// Powers of two for n keep the downstream FFT on its fastest path.
package resample
