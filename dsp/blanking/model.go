package blanking

import (
	"fmt"

	"github.com/cwbudde/algo-blanking/stats/chisq"
)

// NoiseModel is the chi-squared energy detection model for one segment
// length and false-alarm probability. It is immutable after construction.
//
// For circular complex Gaussian noise with per-component variance s2, a
// segment of L samples has energy E with E/s2 ~ chi-squared(2L). The detector
// compares E / s2_hat against the upper pfa-quantile of that distribution.
type NoiseModel struct {
	pfa       float64
	length    int
	dof       int
	threshold float64
}

// NewNoiseModel builds the model for segments of length samples.
func NewNoiseModel(pfa float64, length int) (NoiseModel, error) {
	if !(pfa > 0 && pfa < 1) {
		return NoiseModel{}, fmt.Errorf("%w: %v", ErrInvalidPFA, pfa)
	}
	if length <= 0 {
		return NoiseModel{}, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	dof := 2 * length
	threshold, err := chisq.UpperQuantile(float64(dof), pfa)
	if err != nil {
		return NoiseModel{}, fmt.Errorf("blanking: threshold for pfa %v, dof %d: %w", pfa, dof, err)
	}

	return NoiseModel{
		pfa:       pfa,
		length:    length,
		dof:       dof,
		threshold: threshold,
	}, nil
}

// PFA returns the configured false-alarm probability.
func (m NoiseModel) PFA() float64 { return m.pfa }

// Length returns the segment length in samples.
func (m NoiseModel) Length() int { return m.length }

// DegreesOfFreedom returns 2 * Length.
func (m NoiseModel) DegreesOfFreedom() int { return m.dof }

// Threshold returns the detection threshold on the normalised energy.
func (m NoiseModel) Threshold() float64 { return m.threshold }

// Statistic returns energy / noisePower. ok is false when noisePower is not
// a strictly positive finite number; the statistic is then meaningless.
func (m NoiseModel) Statistic(energy, noisePower float64) (stat float64, ok bool) {
	if !(noisePower > 0) || !finite(noisePower) {
		return 0, false
	}
	return energy / noisePower, true
}

// Exceeds reports whether a segment of the given energy is anomalous under
// noisePower. A degenerate noise power never triggers.
func (m NoiseModel) Exceeds(energy, noisePower float64) bool {
	stat, ok := m.Statistic(energy, noisePower)
	return ok && stat > m.threshold
}
