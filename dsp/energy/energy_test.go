package energy

import (
	"testing"

	"github.com/cwbudde/algo-blanking/internal/testutil"
)

func TestSquaredMagnitudesBackendsAgree(t *testing.T) {
	for _, n := range []int{1, 3, 4, 7, 16, 33, 1000} {
		src := testutil.ComplexNoise(int64(n), 2.0, n)

		got := make([]float64, n)
		want := make([]float64, n)
		Vec{}.SquaredMagnitudes(got, src)
		Scalar{}.SquaredMagnitudes(want, src)

		testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
	}
}

func TestSquaredMagnitudesKnownValues(t *testing.T) {
	src := []complex128{3 + 4i, 0, -1, 1i, 2 - 2i}
	want := []float64{25, 0, 1, 1, 8}

	for _, r := range []Reducer{Vec{}, Scalar{}} {
		got := make([]float64, len(src))
		r.SquaredMagnitudes(got, src)
		testutil.RequireSliceNearlyEqual(t, got, want, 0)
	}
}

func TestSquaredMagnitudesLongerDst(t *testing.T) {
	dst := []float64{-1, -1, -1, -1}
	Vec{}.SquaredMagnitudes(dst, []complex128{1, 2i})
	testutil.RequireSliceNearlyEqual(t, dst, []float64{1, 4, -1, -1}, 0)
}

func TestSquaredMagnitudesShortDstPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for short dst")
		}
	}()
	Scalar{}.SquaredMagnitudes(make([]float64, 1), []complex128{1, 2})
}

func TestSumWindows(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}

	tests := []struct {
		name          string
		offset, count int
		want          float64
	}{
		{"full", 0, 6, 21},
		{"head", 0, 2, 3},
		{"middle", 2, 3, 12},
		{"tail", 4, 2, 11},
		{"empty", 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range []Reducer{Vec{}, Scalar{}} {
				testutil.RequireNearlyEqual(t, r.Sum(values, tt.offset, tt.count), tt.want, 1e-15)
			}
		})
	}
}

func TestSumBackendsAgree(t *testing.T) {
	src := testutil.ComplexNoise(5, 3, 4096)
	mags := make([]float64, len(src))
	Scalar{}.SquaredMagnitudes(mags, src)

	for _, w := range []struct{ offset, count int }{
		{0, 1}, {1, 7}, {3, 32}, {100, 1000}, {0, len(mags)}, {4000, 96},
	} {
		got := Vec{}.Sum(mags, w.offset, w.count)
		want := Scalar{}.Sum(mags, w.offset, w.count)
		testutil.RequireNearlyEqual(t, got, want, 1e-12)

		if again := (Vec{}).Sum(mags, w.offset, w.count); again != got {
			t.Fatalf("Vec.Sum(%d, %d) not repeatable: %v then %v", w.offset, w.count, got, again)
		}
	}
}

func TestSumOutOfRangePanics(t *testing.T) {
	windows := []struct{ offset, count int }{{1, 2}, {-1, 1}, {0, -1}, {3, 0}}
	for _, r := range []Reducer{Vec{}, Scalar{}} {
		for _, w := range windows {
			func() {
				defer func() {
					if recover() == nil {
						t.Fatalf("%T.Sum(%d, %d) on 2 values did not panic", r, w.offset, w.count)
					}
				}()
				r.Sum([]float64{1, 2}, w.offset, w.count)
			}()
		}
	}
}

func TestSegmentEnergyDisjointWindows(t *testing.T) {
	const length = 8
	src := testutil.ComplexNoise(9, 1, 4*length)
	mags := make([]float64, len(src))
	r := Default()
	r.SquaredMagnitudes(mags, src)

	var total float64
	for k := 0; k < 4; k++ {
		total += SegmentEnergy(r, mags, k*length, length)
	}
	testutil.RequireNearlyEqual(t, total, r.Sum(mags, 0, len(mags)), 1e-12)
}
