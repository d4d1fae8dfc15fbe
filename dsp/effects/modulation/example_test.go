package modulation_test

import (
	"fmt"

	"github.com/cwbudde/algo-modfx/dsp/effects/modulation"
)

func ExampleFlanger_ProcessChannel() {
	f, err := modulation.NewFlanger(44100,
		modulation.WithFlangerBlockSize(64),
		modulation.WithFlangerChannels(1),
		modulation.WithFlangerDepth(0.5),
		modulation.WithFlangerRateHz(0),
	)
	if err != nil {
		panic(err)
	}

	// A zero-rate sweep rests at half the delay range, so the wet tap sits
	// a constant 20 samples behind the impulse.
	buf := make([]float64, 64)
	buf[0] = 1

	if err := f.ProcessChannel(0, buf, 40, 1); err != nil {
		panic(err)
	}

	fmt.Printf("%.1f %.1f\n", buf[0], buf[20])

	// Output:
	// 1.0 0.5
}
