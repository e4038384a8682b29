// Package spectrum estimates one-sided magnitude spectra of uniformly
// sampled series.
//
// [Estimator] removes the mean, applies a window from dsp/window, runs a
// real FFT on one of several backends, scales by 1/N or 2/N and converts
// to dB with an epsilon floor. The resulting [Spectrum] carries its bin
// frequencies and resolution so that peak searches can be expressed in Hz.
package spectrum
