package window

import "errors"

var (
	// ErrUnknownType indicates a window name that is not registered.
	ErrUnknownType = errors.New("window: unknown type")

	errEmptyCoeffs      = errors.New("window: coefficients must not be empty")
	errZeroCoherentGain = errors.New("window: coherent gain is zero")
	errMismatchedLength = errors.New("window: samples and coefficients must have same length")
)
