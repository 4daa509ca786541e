package blanking

import "fmt"

// Action is the output policy for one segment.
type Action uint8

const (
	// Pass emits the segment unchanged.
	Pass Action = iota
	// Blank replaces the segment with zeros.
	Blank
)

func (a Action) String() string {
	switch a {
	case Pass:
		return "pass"
	case Blank:
		return "blank"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Phase tells which branch produced a decision.
type Phase uint8

const (
	// PhaseLearning updates the noise estimate and always passes.
	PhaseLearning Phase = iota
	// PhaseDetecting tests the segment against the threshold.
	PhaseDetecting
)

func (p Phase) String() string {
	switch p {
	case PhaseLearning:
		return "learning"
	case PhaseDetecting:
		return "detecting"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// EstimatorState is the mutable per-filter detector state. The zero value
// is the initial state.
type EstimatorState struct {
	// SegmentCount counts segments since construction or the last reset.
	SegmentCount int
	// NoisePower is the running mean of segment energy per degree of freedom.
	NoisePower float64
	// LastBlanked is true when the previous segment was blanked.
	LastBlanked bool
}

// Learn folds one segment energy into the running noise power mean.
// SegmentCount is the number of values already averaged; it is not advanced.
// A non-finite estimate carries no information, so the mean restarts from
// this segment.
func (s EstimatorState) Learn(energy float64, dof int) EstimatorState {
	n := float64(s.SegmentCount)
	if !finite(s.NoisePower) {
		n = 0
	}
	s.NoisePower = (n*s.NoisePower + energy/float64(dof)) / (n + 1)
	return s
}

// Decision describes the outcome of one segment.
type Decision struct {
	Action Action
	Phase  Phase
	// Statistic is energy / NoisePower in the detecting phase, 0 otherwise.
	Statistic float64
	// Reset is set when the segment re-opened the learning window.
	Reset bool
	// Degenerate is set when detection was skipped because the noise
	// estimate was zero, negative or non-finite.
	Degenerate bool
}

// StateMachine holds the immutable decision parameters. Step is a pure
// function of its arguments.
type StateMachine struct {
	model         NoiseModel
	segmentsEst   int
	segmentsReset int
}

// NewStateMachine returns a state machine for model with the given learning
// window and reset count.
func NewStateMachine(model NoiseModel, segmentsEst, segmentsReset int) StateMachine {
	return StateMachine{
		model:         model,
		segmentsEst:   segmentsEst,
		segmentsReset: segmentsReset,
	}
}

// Model returns the detection model.
func (m StateMachine) Model() NoiseModel { return m.model }

// Learning reports whether the next segment will update the noise estimate.
func (m StateMachine) Learning(s EstimatorState) bool {
	return s.SegmentCount < m.segmentsEst && !s.LastBlanked
}

// Step decides the fate of one segment with the given energy and returns the
// successor state.
//
// While learning, the estimate is updated and the segment passes. Otherwise
// the normalised energy is tested; a clean segment seen after more than
// segmentsReset segments resets the count to zero. The count is then
// incremented, so the first segment after a reset leaves it at 1.
//
// A noise estimate that is not strictly positive and finite cannot be used as
// a denominator; such segments pass and are marked Degenerate. A NaN or
// infinite estimate is discarded by the next learning segment; with more than
// one learning segment, the next reset provides one. NaN energies never compare above the threshold
// and therefore pass.
func (m StateMachine) Step(s EstimatorState, energy float64) (EstimatorState, Decision) {
	var d Decision

	if m.Learning(s) {
		s = s.Learn(energy, m.model.dof)
		s.LastBlanked = false
		d = Decision{Action: Pass, Phase: PhaseLearning}
	} else {
		d.Phase = PhaseDetecting
		stat, ok := m.model.Statistic(energy, s.NoisePower)
		d.Statistic = stat
		d.Degenerate = !ok

		if m.model.Exceeds(energy, s.NoisePower) {
			d.Action = Blank
			s.LastBlanked = true
		} else {
			d.Action = Pass
			s.LastBlanked = false
			if s.SegmentCount > m.segmentsReset {
				s.SegmentCount = 0
				d.Reset = true
			}
		}
	}

	s.SegmentCount++
	return s, d
}
