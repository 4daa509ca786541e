package blanking

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-blanking/dsp/energy"
)

const (
	// Defaults match the values commonly used for GNSS front ends.
	defaultPFA           = 0.04
	defaultSegmentLength = 32
	defaultSegmentsEst   = 12500
	defaultSegmentsReset = 5000
)

// Config holds the immutable parameters of a [Filter].
type Config struct {
	// PFA is the target probability that a noise-only segment is blanked.
	PFA float64
	// SegmentLength is the number of samples per decision segment.
	SegmentLength int
	// SegmentsEst is the size of the learning window in segments.
	SegmentsEst int
	// SegmentsReset is the segment count above which a clean segment
	// re-opens the learning window.
	SegmentsReset int
}

// DefaultConfig returns the default blanking configuration.
func DefaultConfig() Config {
	return Config{
		PFA:           defaultPFA,
		SegmentLength: defaultSegmentLength,
		SegmentsEst:   defaultSegmentsEst,
		SegmentsReset: defaultSegmentsReset,
	}
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	if !(c.PFA > 0 && c.PFA < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidPFA, c.PFA)
	}
	if c.SegmentLength <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, c.SegmentLength)
	}
	if c.SegmentsEst < 0 {
		return fmt.Errorf("%w: segments_est %d", ErrInvalidSegments, c.SegmentsEst)
	}
	if c.SegmentsReset < 0 {
		return fmt.Errorf("%w: segments_reset %d", ErrInvalidSegments, c.SegmentsReset)
	}
	return nil
}

// settings collects everything an Option may change.
type settings struct {
	cfg      Config
	reducer  energy.Reducer
	logger   *zap.Logger
	observer Observer
}

// Option mutates filter settings before construction.
type Option func(*settings)

// WithPFA sets the target false-alarm probability.
func WithPFA(pfa float64) Option {
	return func(s *settings) {
		s.cfg.PFA = pfa
	}
}

// WithSegmentLength sets the number of samples per segment.
func WithSegmentLength(length int) Option {
	return func(s *settings) {
		s.cfg.SegmentLength = length
	}
}

// WithLearningSegments sets the learning window size in segments.
func WithLearningSegments(n int) Option {
	return func(s *settings) {
		s.cfg.SegmentsEst = n
	}
}

// WithResetSegments sets the segment count above which learning restarts.
func WithResetSegments(n int) Option {
	return func(s *settings) {
		s.cfg.SegmentsReset = n
	}
}

// WithReducer replaces the energy backend. A nil reducer is ignored.
func WithReducer(r energy.Reducer) Option {
	return func(s *settings) {
		if r != nil {
			s.reducer = r
		}
	}
}

// WithLogger sets the logger used for lifecycle events. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers a per-segment decision hook.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

func applyOptions(cfg Config, opts ...Option) settings {
	s := settings{
		cfg:     cfg,
		reducer: energy.Default(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// finite reports whether x is neither NaN nor infinite.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
