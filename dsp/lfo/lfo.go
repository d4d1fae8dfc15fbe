// Package lfo provides low-frequency phase-accumulator oscillators used to
// modulate delay times. Each oscillator keeps an independent phase per
// channel so that channels of one effect never correlate.
package lfo

import (
	"fmt"
	"math"
)

// Sine is a unipolar sine oscillator. Next returns values in [0, 1], so a
// caller scaling by a maximum delay obtains a delay time sweeping the full
// [0, maxDelay] range.
type Sine struct {
	sampleRate float64
	freqHz     float64
	phase      []float64
}

// NewSine returns a sine oscillator with all channel phases at zero.
func NewSine(sampleRate float64, channels int) (*Sine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("lfo channels must be > 0: %d", channels)
	}

	return &Sine{sampleRate: sampleRate, phase: make([]float64, channels)}, nil
}

// SetFreqHz sets oscillation speed in Hz. Zero freezes the oscillator at
// its current phase.
func (s *Sine) SetFreqHz(freqHz float64) error {
	if freqHz < 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return fmt.Errorf("lfo frequency must be >= 0 and finite: %f", freqHz)
	}

	s.freqHz = freqHz

	return nil
}

// FreqHz returns oscillation speed in Hz.
func (s *Sine) FreqHz() float64 { return s.freqHz }

// Phase returns the channel's current phase in [0, 1).
func (s *Sine) Phase(channel int) float64 { return s.phase[channel] }

// Channels returns the channel count.
func (s *Sine) Channels() int { return len(s.phase) }

// Next advances the channel's phase by freq/sampleRate, wraps it at 1,
// and returns (sin(2*pi*phase)+1)/2.
func (s *Sine) Next(channel int) float64 {
	s.phase[channel] += s.freqHz / s.sampleRate
	if s.phase[channel] >= 1 {
		s.phase[channel] -= 1
	}

	return 0.5 * (math.Sin(2*math.Pi*s.phase[channel]) + 1)
}

// Reset rewinds all channel phases to zero.
func (s *Sine) Reset() {
	for c := range s.phase {
		s.phase[c] = 0
	}
}

// Saw is a linear ramp oscillator returning the raw phase in [0, 1).
// The ramp restarts with a discontinuity every cycle; consumers mask it
// with a crossfade envelope. Initial phases are settable per channel so a
// pair of ramps can start in anti-phase, after which each phase evolves
// independently with no re-synchronization.
type Saw struct {
	sampleRate float64
	freqHz     float64
	phase      []float64
	initial    []float64
}

// NewSaw returns a ramp oscillator with all channel phases at zero.
func NewSaw(sampleRate float64, channels int) (*Saw, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("lfo channels must be > 0: %d", channels)
	}

	return &Saw{
		sampleRate: sampleRate,
		phase:      make([]float64, channels),
		initial:    make([]float64, channels),
	}, nil
}

// SetFreqHz sets ramp speed in Hz. Zero freezes the ramp at its current
// phase.
func (s *Saw) SetFreqHz(freqHz float64) error {
	if freqHz < 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return fmt.Errorf("lfo frequency must be >= 0 and finite: %f", freqHz)
	}

	s.freqHz = freqHz

	return nil
}

// FreqHz returns ramp speed in Hz.
func (s *Saw) FreqHz() float64 { return s.freqHz }

// SetPhase sets the channel's phase in [0, 1). The value also becomes the
// phase Reset restores.
func (s *Saw) SetPhase(channel int, phase float64) error {
	if channel < 0 || channel >= len(s.phase) {
		return fmt.Errorf("lfo channel out of range [0, %d): %d", len(s.phase), channel)
	}

	if phase < 0 || phase >= 1 || math.IsNaN(phase) {
		return fmt.Errorf("lfo phase must be in [0, 1): %f", phase)
	}

	s.phase[channel] = phase
	s.initial[channel] = phase

	return nil
}

// Phase returns the channel's current phase in [0, 1).
func (s *Saw) Phase(channel int) float64 { return s.phase[channel] }

// Channels returns the channel count.
func (s *Saw) Channels() int { return len(s.phase) }

// Next advances the channel's phase by freq/sampleRate, wraps it at 1,
// and returns the phase.
func (s *Saw) Next(channel int) float64 {
	s.phase[channel] += s.freqHz / s.sampleRate
	if s.phase[channel] >= 1 {
		s.phase[channel] -= 1
	}

	return s.phase[channel]
}

// Reset rewinds all channel phases to their configured initial values.
func (s *Saw) Reset() {
	copy(s.phase, s.initial)
}
