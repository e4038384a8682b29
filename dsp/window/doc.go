// Package window generates tapering windows for spectral analysis.
//
// The default symmetric form places zeros at both ends, so Hann of length N
// is 0.5 - 0.5 cos(2 pi n/(N-1)). [WithPeriodic] selects the DFT-even form.
// Windows are addressed by [Type] or by name through [ParseType].
package window
