package testutil

import (
	"math"
	"math/rand"
	"strconv"
)

// ComplexNoise generates circular complex Gaussian noise with a fixed seed.
// Each of the real and imaginary parts has variance sigma2, so a length-L
// segment has expected energy sigma2 * 2L.
func ComplexNoise(seed int64, sigma2 float64, length int) []complex128 {
	out := make([]complex128, length)
	rng := rand.New(rand.NewSource(seed))
	sd := math.Sqrt(sigma2)
	for i := range out {
		out[i] = complex(rng.NormFloat64()*sd, rng.NormFloat64()*sd)
	}
	return out
}

// ComplexTone generates a complex exponential at freq cycles per sample.
func ComplexTone(freq, amplitude float64, length int) []complex128 {
	out := make([]complex128, length)
	step := 2 * math.Pi * freq
	for i := range out {
		s, c := math.Sincos(step * float64(i))
		out[i] = complex(amplitude*c, amplitude*s)
	}
	return out
}

// ScaleToEnergy rescales x in place so that the sum of |x[i]|^2 equals energy.
// An all-zero x is left unchanged.
func ScaleToEnergy(x []complex128, energy float64) {
	var e float64
	for _, v := range x {
		e += real(v)*real(v) + imag(v)*imag(v)
	}
	if e == 0 {
		return
	}
	g := complex(math.Sqrt(energy/e), 0)
	for i := range x {
		x[i] *= g
	}
}

// Zeros returns an all-zero complex signal.
func Zeros(length int) []complex128 {
	return make([]complex128, length)
}

// Segment returns the idx-th length-sample segment of x.
func Segment(x []complex128, idx, length int) []complex128 {
	return x[idx*length : (idx+1)*length]
}

// SizeName formats n for use as a sub-benchmark name.
func SizeName(n int) string {
	return "n=" + strconv.Itoa(n)
}
