// Package pitch provides a Doppler-style delay-line pitch shifter.
//
// The Shifter sweeps two read taps through a shared delay buffer with
// anti-phase sawtooth ramps, each weighted by a sine crossfade envelope
// that reaches zero exactly when its ramp resets. Summing the two taps
// keeps output power roughly constant while masking the ramp
// discontinuities. The effect is wet-only.
package pitch
