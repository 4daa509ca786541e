// Package blanking implements adaptive pulse blanking for complex baseband
// streams.
//
// The stream is cut into fixed-length segments. During a learning window the
// filter averages segment energy per degree of freedom to estimate the noise
// floor. Afterwards each segment's energy, normalised by that estimate, is
// compared against the upper pfa-quantile of a chi-squared distribution with
// 2*length degrees of freedom. Segments above the threshold are replaced with
// zeros; all others pass unchanged.
//
// Learning is suspended for the segment following a blanked one, so an
// interference pulse cannot leak into the estimate. After more than
// SegmentsReset segments the next clean segment re-opens the learning window,
// letting the estimate follow a slowly drifting noise floor.
//
// The per-segment decision is a pure transition, [StateMachine.Step], which
// can be tested independently of the streaming [Filter].
package blanking
