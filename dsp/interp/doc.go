// Package interp provides piecewise-linear interpolation over non-uniform
// abscissas.
//
// Transient circuit solvers emit samples on adaptive time steps. Linear
// interpolation is the amplitude-preserving choice for such data since the
// solver output is itself piecewise linear between accepted steps.
//
//   - [Linear2]:       2-point linear interpolation
//   - [LinearUniform]: uniform query grid, single merged pass
package interp
