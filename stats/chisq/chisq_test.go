package chisq

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-blanking/internal/testutil"
)

// TestUpperQuantileTable checks against published chi-squared critical values.
func TestUpperQuantileTable(t *testing.T) {
	tests := []struct {
		dof, p, want float64
	}{
		{1, 0.05, 3.841459},
		{10, 0.05, 18.307038},
		{20, 0.01, 37.566235},
		{100, 0.001, 149.4493},
	}

	for _, tt := range tests {
		got, err := UpperQuantile(tt.dof, tt.p)
		if err != nil {
			t.Fatalf("UpperQuantile(%v, %v) error = %v", tt.dof, tt.p, err)
		}
		testutil.RequireNearlyEqual(t, got, tt.want, 1e-4)
	}
}

// TestUpperQuantileTwoDegrees uses the closed form t = -2 ln(p) for k = 2.
func TestUpperQuantileTwoDegrees(t *testing.T) {
	for _, p := range []float64{0.5, 0.1, 0.04, 1e-3, 1e-6, 1e-12} {
		got, err := UpperQuantile(2, p)
		if err != nil {
			t.Fatalf("UpperQuantile(2, %v) error = %v", p, err)
		}
		testutil.RequireNearlyEqual(t, got, -2*math.Log(p), 1e-6)
	}
}

// TestUpperQuantileFourDegrees checks P(X > t) = e^{-t/2}(1 + t/2) for k = 4.
func TestUpperQuantileFourDegrees(t *testing.T) {
	for _, p := range []float64{0.3, 0.01, 1e-5} {
		got, err := UpperQuantile(4, p)
		if err != nil {
			t.Fatalf("UpperQuantile(4, %v) error = %v", p, err)
		}
		tail := math.Exp(-got/2) * (1 + got/2)
		testutil.RequireNearlyEqual(t, tail, p, 1e-6)
	}
}

func TestUpperQuantileSurvivalRoundTrip(t *testing.T) {
	for _, dof := range []float64{2, 8, 64, 2000} {
		for _, p := range []float64{0.2, 0.04, 1e-3, 1e-4} {
			q, err := UpperQuantile(dof, p)
			if err != nil {
				t.Fatalf("UpperQuantile(%v, %v) error = %v", dof, p, err)
			}
			testutil.RequireNearlyEqual(t, Survival(dof, q), p, 1e-4)
		}
	}
}

func TestQuantileComplementsUpper(t *testing.T) {
	lower, err := Quantile(64, 0.96)
	if err != nil {
		t.Fatalf("Quantile error = %v", err)
	}
	upper, err := UpperQuantile(64, 0.04)
	if err != nil {
		t.Fatalf("UpperQuantile error = %v", err)
	}
	testutil.RequireNearlyEqual(t, lower, upper, 1e-6)
}

func TestUpperQuantileMonotone(t *testing.T) {
	prev := 0.0
	for _, p := range []float64{0.5, 0.1, 0.01, 0.001} {
		q, _ := UpperQuantile(64, p)
		if q <= prev {
			t.Fatalf("quantile not increasing as p shrinks: %v after %v", q, prev)
		}
		prev = q
	}
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		dof, p  float64
		wantErr error
	}{
		{"zero dof", 0, 0.1, ErrInvalidDegrees},
		{"negative dof", -4, 0.1, ErrInvalidDegrees},
		{"NaN dof", math.NaN(), 0.1, ErrInvalidDegrees},
		{"Inf dof", math.Inf(1), 0.1, ErrInvalidDegrees},
		{"p zero", 4, 0, ErrInvalidProbability},
		{"p one", 4, 1, ErrInvalidProbability},
		{"p negative", 4, -0.2, ErrInvalidProbability},
		{"p NaN", 4, math.NaN(), ErrInvalidProbability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UpperQuantile(tt.dof, tt.p); !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpperQuantile error = %v, want %v", err, tt.wantErr)
			}
			if _, err := Quantile(tt.dof, tt.p); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Quantile error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
