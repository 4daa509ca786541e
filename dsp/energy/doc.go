// Package energy provides the per-sample power and windowed-sum primitives
// used by segment energy detectors.
//
// A [Reducer] turns complex baseband samples into squared magnitudes and sums
// contiguous runs of them. The default [Vec] backend dispatches both kernels to
// SIMD implementations through algo-vecmath; [Scalar] is a plain-Go reference
// used for cross-checking.
package energy
