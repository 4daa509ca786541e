// Package chisq provides tail quantities of the chi-squared distribution used
// to set constant-false-alarm energy detection thresholds.
package chisq

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidDegrees is returned for non-positive or non-finite degrees of freedom.
	ErrInvalidDegrees = errors.New("chisq: degrees of freedom must be positive and finite")
	// ErrInvalidProbability is returned for tail probabilities outside (0, 1).
	ErrInvalidProbability = errors.New("chisq: tail probability must be in (0, 1)")
)

func validate(dof, p float64) error {
	if !(dof > 0) || math.IsInf(dof, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDegrees, dof)
	}
	if !(p > 0 && p < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return nil
}

// UpperQuantile returns t such that P(X > t) = p for X ~ chi-squared(dof).
//
// The chi-squared distribution with k degrees of freedom is a Gamma(k/2, 2)
// distribution, so t is twice the inverse of the complemented regularized
// incomplete gamma function. Working on the complement keeps full precision
// for small p, where 1-p would round.
func UpperQuantile(dof, p float64) (float64, error) {
	if err := validate(dof, p); err != nil {
		return 0, err
	}
	return 2 * mathext.GammaIncRegCompInv(dof/2, p), nil
}

// Quantile returns t such that P(X <= t) = p for X ~ chi-squared(dof).
func Quantile(dof, p float64) (float64, error) {
	if err := validate(dof, p); err != nil {
		return 0, err
	}
	return 2 * mathext.GammaIncRegInv(dof/2, p), nil
}

// Survival returns P(X > x) for X ~ chi-squared(dof).
func Survival(dof, x float64) float64 {
	return distuv.ChiSquared{K: dof}.Survival(x)
}
