// Package scale maps raw axis magnitudes (physical distance, elapsed time) to
// drawing lengths.
//
// Every transform floors the unscaled magnitude at 1.0 before multiplying by the
// per-axis scale factor, so zero-length intervals still render with a visible size:
//
//	gap := scale.Length(10, scale.Linear, 1.0) // 10
//	min := scale.Length(0, scale.Square, 2.0)  // 2
//
// Auto resolves to Linear here. The time axis handles Auto through the density
// estimator instead of this package.
package scale
