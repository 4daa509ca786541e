// Package suppression measures how much interference a blanking stage
// removed, by comparing its input and output in the time and frequency
// domains.
package suppression

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/cwbudde/algo-blanking/dsp/core"
)

const defaultFFTSize = 1024

var (
	errLengthMismatch = errors.New("suppression: input and output lengths differ")
	errTooShort       = errors.New("suppression: signal shorter than one FFT frame")
)

// Config holds measurement parameters.
type Config struct {
	// FFTSize is the frame length of the averaged spectrum. It must be a
	// power of two; 0 selects 1024.
	FFTSize int
}

// Report summarises one measurement.
//
//nolint:revive
type Report struct {
	Samples         int
	BlankedSamples  int     // nonzero input samples that are zero in the output
	BlankedFraction float64 // BlankedSamples / Samples
	InputPower_dB   float64 // mean |x|^2 of the input
	OutputPower_dB  float64 // mean |y|^2 of the output
	PeakBin         int     // strongest input bin, FFT order
	PeakFreq        float64 // PeakBin in cycles per sample, [-0.5, 0.5)
	InputPeak_dB    float64 // averaged input power at PeakBin
	OutputPeak_dB   float64 // averaged output power at PeakBin
	PeakReduction   float64 // InputPeak_dB - OutputPeak_dB
	Frames          int     // frames averaged
}

// Measure compares a blanking stage's input and output. Both slices must
// have the same length and hold at least one FFT frame.
func Measure(in, out []complex128, cfg Config) (Report, error) {
	if len(in) != len(out) {
		return Report{}, fmt.Errorf("%w: %d vs %d", errLengthMismatch, len(in), len(out))
	}

	size := cfg.FFTSize
	if size == 0 {
		size = defaultFFTSize
	}
	if size < 2 || bits.OnesCount(uint(size)) != 1 {
		return Report{}, fmt.Errorf("suppression: FFT size must be a power of two >= 2: %d", size)
	}
	if len(in) < size {
		return Report{}, fmt.Errorf("%w: %d < %d", errTooShort, len(in), size)
	}

	r := Report{Samples: len(in)}

	var inPow, outPow float64
	for i, x := range in {
		y := out[i]
		inPow += real(x)*real(x) + imag(x)*imag(x)
		outPow += real(y)*real(y) + imag(y)*imag(y)
		if y == 0 && x != 0 {
			r.BlankedSamples++
		}
	}
	n := float64(len(in))
	r.BlankedFraction = float64(r.BlankedSamples) / n
	r.InputPower_dB = core.LinearPowerToDB(inPow / n)
	r.OutputPower_dB = core.LinearPowerToDB(outPow / n)

	a, err := newAverager(size)
	if err != nil {
		return Report{}, err
	}
	inPSD, err := a.spectrum(in)
	if err != nil {
		return Report{}, err
	}
	outPSD, err := a.spectrum(out)
	if err != nil {
		return Report{}, err
	}

	peak := 0
	for k, p := range inPSD {
		if p > inPSD[peak] {
			peak = k
		}
	}

	r.Frames = len(in) / size
	r.PeakBin = peak
	r.PeakFreq = binFrequency(peak, size)
	r.InputPeak_dB = core.LinearPowerToDB(inPSD[peak])
	r.OutputPeak_dB = core.LinearPowerToDB(outPSD[peak])
	r.PeakReduction = r.InputPeak_dB - r.OutputPeak_dB
	if math.IsNaN(r.PeakReduction) {
		r.PeakReduction = 0
	}

	return r, nil
}

// averager computes non-overlapping Hann-windowed averaged power spectra.
type averager struct {
	plan  *algofft.Plan[complex128]
	coeff []float64
	frame []complex128
	bins  []complex128
}

func newAverager(size int) (*averager, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("suppression: FFT plan for %d points: %w", size, err)
	}
	return &averager{
		plan:  plan,
		coeff: window.Hann(size),
		frame: make([]complex128, size),
		bins:  make([]complex128, size),
	}, nil
}

func (a *averager) spectrum(x []complex128) ([]float64, error) {
	size := len(a.frame)
	psd := make([]float64, size)
	frames := len(x) / size

	for f := 0; f < frames; f++ {
		seg := x[f*size : (f+1)*size]
		for i, v := range seg {
			a.frame[i] = v * complex(a.coeff[i], 0)
		}
		if err := a.plan.Forward(a.bins, a.frame); err != nil {
			return nil, fmt.Errorf("suppression: forward FFT: %w", err)
		}
		for k, c := range a.bins {
			psd[k] += real(c)*real(c) + imag(c)*imag(c)
		}
	}

	scale := 1 / float64(frames)
	for k := range psd {
		psd[k] *= scale
	}
	return psd, nil
}

// binFrequency maps an FFT bin to cycles per sample in [-0.5, 0.5).
func binFrequency(k, size int) float64 {
	if k >= size/2 {
		k -= size
	}
	return float64(k) / float64(size)
}
