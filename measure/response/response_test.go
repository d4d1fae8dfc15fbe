package response

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-modfx/dsp/core"
	"github.com/cwbudde/algo-modfx/dsp/effects/modulation"
	"github.com/cwbudde/algo-modfx/dsp/signal"
)

func TestMagnitudeOfImpulseIsFlat(t *testing.T) {
	g := signal.NewGenerator()

	block, err := g.Impulse(1, 0, 64)
	if err != nil {
		t.Fatalf("Impulse() error = %v", err)
	}

	mag, err := Magnitude(block, 64)
	if err != nil {
		t.Fatalf("Magnitude() error = %v", err)
	}

	if len(mag) != 33 {
		t.Fatalf("len = %d, want 33", len(mag))
	}

	for i, v := range mag {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("bin %d = %v, want 1", i, v)
		}
	}
}

func TestMagnitudeOfBinAlignedSine(t *testing.T) {
	const (
		fftSize = 64
		bin     = 8
	)

	g := signal.NewGenerator(core.WithSampleRate(fftSize))

	block, err := g.Sine(bin, 1, fftSize)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	mag, err := Magnitude(block, fftSize)
	if err != nil {
		t.Fatalf("Magnitude() error = %v", err)
	}

	// A full number of cycles concentrates all energy in one bin with
	// magnitude N/2.
	if math.Abs(mag[bin]-fftSize/2) > 1e-6 {
		t.Fatalf("bin %d = %v, want %v", bin, mag[bin], float64(fftSize)/2)
	}

	for i, v := range mag {
		if i == bin {
			continue
		}

		if math.Abs(v) > 1e-6 {
			t.Fatalf("bin %d = %v, want ~0", i, v)
		}
	}
}

func TestMagnitudeZeroPads(t *testing.T) {
	mag, err := Magnitude([]float64{1}, 16)
	if err != nil {
		t.Fatalf("Magnitude() error = %v", err)
	}

	if len(mag) != 9 {
		t.Fatalf("len = %d, want 9", len(mag))
	}
}

func TestMagnitudeValidation(t *testing.T) {
	if _, err := Magnitude(nil, 16); err != ErrEmptyBlock {
		t.Fatalf("Magnitude(nil) error = %v, want ErrEmptyBlock", err)
	}

	if _, err := Magnitude(make([]float64, 32), 16); err != ErrFFTSizeTooSmall {
		t.Fatalf("Magnitude() error = %v, want ErrFFTSizeTooSmall", err)
	}
}

func TestBinFrequency(t *testing.T) {
	if got := BinFrequency(1, 512, 44100); math.Abs(got-86.1328125) > 1e-9 {
		t.Fatalf("BinFrequency(1, 512, 44100) = %v, want 86.1328125", got)
	}

	if got := BinFrequency(256, 512, 44100); got != 22050 {
		t.Fatalf("BinFrequency(256, 512, 44100) = %v, want 22050", got)
	}

	if got := BinFrequency(3, 0, 44100); got != 0 {
		t.Fatalf("BinFrequency with zero fft size = %v, want 0", got)
	}
}

func TestCombNotches(t *testing.T) {
	notches, err := CombNotches(16, 44100, 4)
	if err != nil {
		t.Fatalf("CombNotches() error = %v", err)
	}

	want := []float64{1378.125, 4134.375, 6890.625, 9646.875}
	if len(notches) != len(want) {
		t.Fatalf("len = %d, want %d", len(notches), len(want))
	}

	for i := range want {
		if math.Abs(notches[i]-want[i]) > 1e-9 {
			t.Fatalf("notch %d = %v, want %v", i, notches[i], want[i])
		}
	}
}

func TestCombNotchesStopAtNyquist(t *testing.T) {
	notches, err := CombNotches(2, 1000, 5)
	if err != nil {
		t.Fatalf("CombNotches() error = %v", err)
	}

	if len(notches) != 1 {
		t.Fatalf("len = %d, want 1", len(notches))
	}

	if notches[0] != 250 {
		t.Fatalf("notch 0 = %v, want 250", notches[0])
	}
}

func TestCombNotchesValidation(t *testing.T) {
	if _, err := CombNotches(0, 44100, 4); err != ErrInvalidDelay {
		t.Fatalf("CombNotches() error = %v, want ErrInvalidDelay", err)
	}

	if _, err := CombNotches(16, 0, 4); err != ErrInvalidSampleRate {
		t.Fatalf("CombNotches() error = %v, want ErrInvalidSampleRate", err)
	}
}

func TestFlangerImpulseResponseHasPredictedNotches(t *testing.T) {
	const (
		sampleRate = 44100.0
		fftSize    = 512
		delay      = 16 // frozen sweep midpoint of a 32-sample range
	)

	f, err := modulation.NewFlanger(sampleRate,
		modulation.WithFlangerBlockSize(fftSize),
		modulation.WithFlangerChannels(1),
		modulation.WithFlangerDepth(1),
		modulation.WithFlangerFeedback(0),
		modulation.WithFlangerRateHz(0),
	)
	if err != nil {
		t.Fatalf("NewFlanger() error = %v", err)
	}

	g := signal.NewGenerator(core.WithSampleRate(sampleRate))

	buf, err := g.Impulse(1, 0, fftSize)
	if err != nil {
		t.Fatalf("Impulse() error = %v", err)
	}

	if err := f.ProcessChannel(0, buf, 2*delay, 1); err != nil {
		t.Fatalf("ProcessChannel() error = %v", err)
	}

	mag, err := Magnitude(buf, fftSize)
	if err != nil {
		t.Fatalf("Magnitude() error = %v", err)
	}

	notches, err := CombNotches(delay, sampleRate, 3)
	if err != nil {
		t.Fatalf("CombNotches() error = %v", err)
	}

	// The impulse response 1 + z^-16 at unity depth cancels completely at
	// the predicted notch frequencies and doubles halfway between them.
	for _, freq := range notches {
		bin := int(math.Round(freq * fftSize / sampleRate))

		if mag[bin] > 1e-9 {
			t.Fatalf("bin %d (%.1f Hz) = %v, want ~0 at notch", bin, freq, mag[bin])
		}
	}

	if math.Abs(mag[0]-2) > 1e-9 {
		t.Fatalf("bin 0 = %v, want 2", mag[0])
	}

	if math.Abs(mag[32]-2) > 1e-9 {
		t.Fatalf("bin 32 = %v, want 2", mag[32])
	}
}
