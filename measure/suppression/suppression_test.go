package suppression

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
	"github.com/cwbudde/algo-blanking/internal/testutil"
)

func TestMeasureIdentity(t *testing.T) {
	in := testutil.ComplexNoise(1, 1, 4096)
	r, err := Measure(in, in, Config{FFTSize: 256})
	if err != nil {
		t.Fatalf("Measure error = %v", err)
	}
	if r.BlankedSamples != 0 || r.BlankedFraction != 0 {
		t.Fatalf("blanked = %d (%v), want 0", r.BlankedSamples, r.BlankedFraction)
	}
	if r.PeakReduction != 0 || r.InputPower_dB != r.OutputPower_dB {
		t.Fatalf("identity report = %+v", r)
	}
	if r.Frames != 16 {
		t.Fatalf("Frames = %d, want 16", r.Frames)
	}
	if math.Abs(r.InputPower_dB-10*math.Log10(2)) > 0.1 {
		t.Fatalf("InputPower_dB = %v, want ~3 dB", r.InputPower_dB)
	}
}

func TestMeasureAllBlanked(t *testing.T) {
	in := testutil.ComplexTone(0.25, 1, 2048)
	out := testutil.Zeros(len(in))

	r, err := Measure(in, out, Config{})
	if err != nil {
		t.Fatalf("Measure error = %v", err)
	}
	if r.BlankedFraction != 1 {
		t.Fatalf("BlankedFraction = %v, want 1", r.BlankedFraction)
	}
	if !math.IsInf(r.OutputPower_dB, -1) || !math.IsInf(r.PeakReduction, 1) {
		t.Fatalf("OutputPower_dB = %v, PeakReduction = %v", r.OutputPower_dB, r.PeakReduction)
	}
	if r.PeakBin != 256 || r.PeakFreq != 0.25 {
		t.Fatalf("peak at bin %d (%v), want 256 (0.25)", r.PeakBin, r.PeakFreq)
	}
}

func TestMeasureNegativeFrequencyPeak(t *testing.T) {
	in := testutil.ComplexTone(-0.125, 1, 1024)
	r, err := Measure(in, in, Config{FFTSize: 64})
	if err != nil {
		t.Fatalf("Measure error = %v", err)
	}
	if r.PeakBin != 56 || r.PeakFreq != -0.125 {
		t.Fatalf("peak at bin %d (%v), want 56 (-0.125)", r.PeakBin, r.PeakFreq)
	}
}

// TestMeasurePulsedToneAfterBlanking runs a pulsed carrier through the
// blanking filter and checks that the bursts are removed.
func TestMeasurePulsedToneAfterBlanking(t *testing.T) {
	const (
		length   = 64
		segments = 2000
	)

	in := testutil.ComplexNoise(5, 0.01, segments*length)
	tone := testutil.ComplexTone(0.125, 1, len(in))
	bursts := 0
	for s := 200; s < segments-1; s++ {
		if s%100 < 10 {
			bursts++
			for i := s * length; i < (s+1)*length; i++ {
				in[i] += tone[i]
			}
		}
	}

	f := blanking.MustNew(
		blanking.WithPFA(1e-6),
		blanking.WithSegmentLength(length),
		blanking.WithLearningSegments(100),
		blanking.WithResetSegments(5000),
	)
	out := make([]complex128, len(in))
	n := f.Process(out, in)

	r, err := Measure(in[:n], out[:n], Config{FFTSize: 1024})
	if err != nil {
		t.Fatalf("Measure error = %v", err)
	}

	if r.PeakFreq != 0.125 {
		t.Fatalf("PeakFreq = %v, want 0.125", r.PeakFreq)
	}
	if r.PeakReduction < 20 {
		t.Fatalf("PeakReduction = %.1f dB, want > 20 dB", r.PeakReduction)
	}
	want := float64(bursts*length) / float64(n)
	if math.Abs(r.BlankedFraction-want) > 0.005 {
		t.Fatalf("BlankedFraction = %v, want ~%v", r.BlankedFraction, want)
	}
	if r.OutputPower_dB >= r.InputPower_dB {
		t.Fatalf("output power %v dB not below input %v dB", r.OutputPower_dB, r.InputPower_dB)
	}
}

func TestMeasureErrors(t *testing.T) {
	x := testutil.ComplexNoise(1, 1, 100)

	if _, err := Measure(x, x[:50], Config{FFTSize: 16}); !errors.Is(err, errLengthMismatch) {
		t.Errorf("length mismatch error = %v", err)
	}
	if _, err := Measure(x, x, Config{FFTSize: 128}); !errors.Is(err, errTooShort) {
		t.Errorf("too short error = %v", err)
	}
	for _, size := range []int{1, 3, 100, -8} {
		if _, err := Measure(x, x, Config{FFTSize: size}); err == nil {
			t.Errorf("FFT size %d accepted", size)
		}
	}
}
