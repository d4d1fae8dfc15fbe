// Package interp holds the small pure functions the delay-line engines use
// to hide discrete delay steps: linear blending between adjacent taps and
// the sine envelope that masks sawtooth ramp resets.
package interp

import "math"

// Lerp blends linearly from a to b by t: (1-t)*a + t*b.
// t outside [0, 1] extrapolates.
func Lerp(t, a, b float64) float64 {
	return (1-t)*a + t*b
}

// CrossfadeGain is the crossfade envelope for a delay tap swept by a ramp:
// sin(pi * delayTime / maxDelay). It is zero exactly when the ramp resets
// (delay time 0 or maxDelay) and peaks mid-ramp, so the reset discontinuity
// is masked when two anti-phase taps are summed. Returns 0 when maxDelay
// is not positive.
func CrossfadeGain(delayTime, maxDelay float64) float64 {
	if maxDelay <= 0 {
		return 0
	}

	return math.Sin(math.Pi * delayTime / maxDelay)
}
