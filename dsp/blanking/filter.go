package blanking

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-blanking/dsp/core"
	"github.com/cwbudde/algo-blanking/dsp/energy"
)

// Observer receives every segment decision. index counts segments since the
// filter was created or last Reset; energy is the raw segment energy and
// state is the estimator state after the decision.
//
// Observers run on the processing path and must not retain the filter.
type Observer interface {
	ObserveSegment(index uint64, energy float64, d Decision, state EstimatorState)
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(index uint64, energy float64, d Decision, state EstimatorState)

// ObserveSegment calls f.
func (f ObserverFunc) ObserveSegment(index uint64, energy float64, d Decision, state EstimatorState) {
	f(index, energy, d, state)
}

// Filter is a streaming pulse blanker.
//
// Process consumes whole segments only and always leaves at least one full
// segment of the available input unconsumed. The caller keeps the remainder
// and presents it again, followed by new samples, on the next call.
//
// Filter is not safe for concurrent use.
type Filter struct {
	cfg      Config
	machine  StateMachine
	reducer  energy.Reducer
	logger   *zap.Logger
	observer Observer

	state EstimatorState
	stats Stats

	// burst counts consecutive blanked segments.
	burst uint64
	mags  []float64
}

// New creates a filter from [DefaultConfig] adjusted by opts.
func New(opts ...Option) (*Filter, error) {
	return NewFromConfig(DefaultConfig(), opts...)
}

// MustNew is like [New] but panics on an invalid configuration.
func MustNew(opts ...Option) *Filter {
	f, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFromConfig creates a filter from cfg adjusted by opts.
func NewFromConfig(cfg Config, opts ...Option) (*Filter, error) {
	s := applyOptions(cfg, opts...)
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := NewNoiseModel(s.cfg.PFA, s.cfg.SegmentLength)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		cfg:      s.cfg,
		machine:  NewStateMachine(model, s.cfg.SegmentsEst, s.cfg.SegmentsReset),
		reducer:  s.reducer,
		logger:   s.logger,
		observer: s.observer,
	}

	f.logger.Info("pulse blanking filter configured",
		zap.Float64("pfa", s.cfg.PFA),
		zap.Int("segment_length", s.cfg.SegmentLength),
		zap.Int("segments_est", s.cfg.SegmentsEst),
		zap.Int("segments_reset", s.cfg.SegmentsReset),
		zap.Int("dof", model.DegreesOfFreedom()),
		zap.Float64("threshold", model.Threshold()),
	)

	return f, nil
}

// Config returns the filter configuration.
func (f *Filter) Config() Config { return f.cfg }

// Model returns the detection model.
func (f *Filter) Model() NoiseModel { return f.machine.Model() }

// State returns a snapshot of the estimator state.
func (f *Filter) State() EstimatorState { return f.state }

// Stats returns a snapshot of the processing counters.
func (f *Filter) Stats() Stats { return f.stats }

// SegmentLength returns the segment length in samples.
func (f *Filter) SegmentLength() int { return f.cfg.SegmentLength }

// Forecast returns the minimum number of input samples needed to produce
// any output, independent of the requested output size.
func (f *Filter) Forecast(noutput int) int {
	return f.cfg.SegmentLength
}

// Consumable returns how many of n available samples a call to Process
// would consume: the largest multiple of the segment length strictly below n.
func (f *Filter) Consumable(n int) int {
	length := f.cfg.SegmentLength
	if n <= length {
		return 0
	}
	return ((n - 1) / length) * length
}

// Process filters whole segments from src into dst and returns the number of
// samples consumed from src and written to dst.
//
// Processing is bounded by min(len(src), len(dst)) and stops before the
// segment that would end on that bound, so an exact multiple of the segment
// length is never fully consumed. The returned count is always a multiple of
// the segment length; 0 means more input is needed. dst may be src itself
// for in-place processing.
func (f *Filter) Process(dst, src []complex128) int {
	n := min(len(src), len(dst))
	consumed := f.Consumable(n)
	if consumed == 0 {
		return 0
	}

	f.mags = core.EnsureLen(f.mags, consumed)
	mags := f.mags
	f.reducer.SquaredMagnitudes(mags, src[:consumed])

	length := f.cfg.SegmentLength
	for off := 0; off < consumed; off += length {
		e := energy.SegmentEnergy(f.reducer, mags, off, length)
		d := f.step(e)

		out := dst[off : off+length]
		if d.Action == Blank {
			clear(out)
		} else {
			copy(out, src[off:off+length])
		}
	}

	f.stats.Samples += uint64(consumed)
	return consumed
}

// step advances the state machine and keeps stats, logging and the observer
// in sync with the decision.
func (f *Filter) step(e float64) Decision {
	next, d := f.machine.Step(f.state, e)
	index := f.stats.Segments
	f.state = next
	f.stats.record(d)

	switch {
	case d.Action == Blank:
		if f.burst == 0 {
			f.logger.Debug("blanking started",
				zap.Uint64("segment", index),
				zap.Float64("statistic", d.Statistic),
				zap.Float64("noise_power", f.state.NoisePower),
			)
		}
		f.burst++
	case f.burst > 0:
		f.logger.Debug("blanking ended",
			zap.Uint64("segment", index),
			zap.Uint64("blanked_segments", f.burst),
		)
		f.burst = 0
	}

	if d.Reset {
		f.logger.Debug("noise estimate re-learning",
			zap.Uint64("segment", index),
			zap.Float64("noise_power", f.state.NoisePower),
		)
	}

	if f.observer != nil {
		f.observer.ObserveSegment(index, e, d, f.state)
	}
	return d
}

// Reset restores the initial estimator state and clears the counters.
// Configuration is unchanged.
func (f *Filter) Reset() {
	f.state = EstimatorState{}
	f.stats = Stats{}
	f.burst = 0
}
