package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRequireNearlyEqualWithinTolerance(t *testing.T) {
	RequireNearlyEqual(t, 1.00001, 1.0, 1e-4)
	RequireNearlyEqual(t, 0, 0, 1e-12)
}

func TestRequireIdenticalSameSlice(t *testing.T) {
	x := []complex128{1 + 2i, -3, complex(0, math.Pi)}
	RequireIdentical(t, x, append([]complex128(nil), x...))
}
