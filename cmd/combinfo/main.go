// Command combinfo prints the comb-filter response of a flanger frozen at
// a fixed delay, comparing measured notch magnitudes against the
// predicted notch frequencies.
//
// Usage:
//
//	combinfo [flags]
//
// Examples:
//
//	combinfo
//	combinfo -delay 32 -depth 0.8
//	combinfo -samplerate 48000 -fft 4096
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-modfx/dsp/core"
	"github.com/cwbudde/algo-modfx/dsp/effects/modulation"
	"github.com/cwbudde/algo-modfx/dsp/signal"
	"github.com/cwbudde/algo-modfx/measure/response"
)

func main() {
	sampleRate := flag.Float64("samplerate", 44100, "sample rate in Hz")
	delaySamples := flag.Int("delay", 16, "frozen delay in samples")
	depth := flag.Float64("depth", 1.0, "wet-tap gain")
	fftSize := flag.Int("fft", 2048, "FFT size (power of two)")
	notchCount := flag.Int("notches", 8, "number of notches to report")
	flag.Parse()

	err := run(*sampleRate, *delaySamples, *depth, *fftSize, *notchCount)
	if err != nil {
		fmt.Fprintln(os.Stderr, "combinfo:", err)
		os.Exit(1)
	}
}

func run(sampleRate float64, delaySamples int, depth float64, fftSize, notchCount int) error {
	flanger, err := modulation.NewFlanger(sampleRate,
		modulation.WithFlangerBlockSize(fftSize),
		modulation.WithFlangerChannels(1),
		modulation.WithFlangerRateHz(0),
		modulation.WithFlangerDepth(depth),
	)
	if err != nil {
		return err
	}

	if delaySamples <= 0 || 2*delaySamples > flanger.TranspositionRange() {
		return fmt.Errorf("delay must be in [1, %d] samples: %d",
			flanger.TranspositionRange()/2, delaySamples)
	}

	gen := signal.NewGenerator(
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(fftSize),
		core.WithChannels(1),
	)

	block, err := gen.Impulse(1, 0, fftSize)
	if err != nil {
		return err
	}

	// A frozen LFO sits at the midpoint of its sweep, so the constant
	// delay equals half of maxDelaySamples.
	err = flanger.ProcessChannel(0, block, 2*delaySamples, 1)
	if err != nil {
		return err
	}

	err = flanger.AdvanceDelayWritePosition(fftSize)
	if err != nil {
		return err
	}

	err = flanger.AdvanceFeedbackWritePosition(fftSize)
	if err != nil {
		return err
	}

	mag, err := response.Magnitude(block, fftSize)
	if err != nil {
		return err
	}

	notches, err := response.CombNotches(delaySamples, sampleRate, notchCount)
	if err != nil {
		return err
	}

	fmt.Printf("comb response: delay=%d samples, depth=%g, fs=%g Hz\n\n",
		delaySamples, depth, sampleRate)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "notch\tpredicted Hz\tbin\t|H| dB")

	for k, f := range notches {
		bin := int(math.Round(f * float64(fftSize) / sampleRate))
		if bin >= len(mag) {
			break
		}

		fmt.Fprintf(w, "%d\t%.1f\t%d\t%.1f\n", k, f, bin, core.LinearToDB(mag[bin]))
	}

	return w.Flush()
}
