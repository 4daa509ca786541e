package energy

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// Reducer computes per-sample squared magnitudes and windowed sums.
//
// Implementations are stateless from the caller's point of view and must be
// safe to call repeatedly with disjoint windows.
type Reducer interface {
	// SquaredMagnitudes writes |src[i]|^2 into dst[i]. dst must be at least
	// as long as src.
	SquaredMagnitudes(dst []float64, src []complex128)

	// Sum returns the sum of count consecutive values starting at offset.
	Sum(values []float64, offset, count int) float64
}

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Vec is the SIMD-dispatched backend. The zero value is ready to use.
type Vec struct{}

var defaultReducer Reducer = Vec{}

// Default returns the backend used when no reducer is configured.
func Default() Reducer {
	return defaultReducer
}

// SquaredMagnitudes implements [Reducer] using algo-vecmath's Power kernel.
// Scratch buffers for the real and imaginary parts are pooled.
func (Vec) SquaredMagnitudes(dst []float64, src []complex128) {
	n := len(src)
	if n == 0 {
		return
	}
	checkDst(dst, n)

	re, im, buf := getScratch(n)
	for i, c := range src {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(dst[:n], re, im)
	putScratch(buf)
}

// Sum implements [Reducer] using algo-vecmath's Sum kernel. The summation
// order may differ from [Scalar], so results agree to rounding only.
func (Vec) Sum(values []float64, offset, count int) float64 {
	checkWindow(values, offset, count)
	return vecmath.Sum(values[offset : offset+count])
}

// Scalar is a straightforward pure-Go backend.
type Scalar struct{}

// SquaredMagnitudes implements [Reducer].
func (Scalar) SquaredMagnitudes(dst []float64, src []complex128) {
	if len(src) == 0 {
		return
	}
	checkDst(dst, len(src))

	for i, c := range src {
		re, im := real(c), imag(c)
		dst[i] = re*re + im*im
	}
}

// Sum implements [Reducer], accumulating left to right.
func (Scalar) Sum(values []float64, offset, count int) float64 {
	checkWindow(values, offset, count)

	var sum float64
	for _, v := range values[offset : offset+count] {
		sum += v
	}
	return sum
}

// SegmentEnergy returns the energy of the length-sample window of mags
// starting at offset.
func SegmentEnergy(r Reducer, mags []float64, offset, length int) float64 {
	return r.Sum(mags, offset, length)
}

func checkDst(dst []float64, n int) {
	if len(dst) < n {
		panic(fmt.Sprintf("energy: dst too short: %d < %d", len(dst), n))
	}
}

func checkWindow(values []float64, offset, count int) {
	if offset < 0 || count < 0 || offset+count > len(values) {
		panic(fmt.Sprintf("energy: window [%d:%d] out of range for %d values",
			offset, offset+count, len(values)))
	}
}
