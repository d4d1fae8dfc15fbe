// Package response captures magnitude responses of processed blocks and
// predicts comb-filter notch positions, primarily to verify delay-line
// effects against their expected spectra.
package response

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by response analysis functions.
var (
	ErrEmptyBlock        = errors.New("response: block is empty")
	ErrFFTSizeTooSmall   = errors.New("response: fft size smaller than block")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidDelay      = errors.New("response: delay must be > 0 samples")
)

// Magnitude returns the single-sided magnitude spectrum of block,
// zero-padded to fftSize. The result holds fftSize/2+1 bins from DC to
// Nyquist.
func Magnitude(block []float64, fftSize int) ([]float64, error) {
	if len(block) == 0 {
		return nil, ErrEmptyBlock
	}

	if fftSize < len(block) {
		return nil, ErrFFTSizeTooSmall
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range block {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, in)
	if err != nil {
		return nil, fmt.Errorf("response: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// BinFrequency returns the center frequency in Hz of an FFT bin.
func BinFrequency(bin, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}

	return float64(bin) * sampleRate / float64(fftSize)
}

// CombNotches returns the first count notch frequencies in Hz of a
// feedforward comb filter with the given delay:
//
//	f_k = (k + 1/2) * sampleRate / delaySamples
//
// Notches above Nyquist are omitted, so fewer than count values may be
// returned.
func CombNotches(delaySamples int, sampleRate float64, count int) ([]float64, error) {
	if delaySamples <= 0 {
		return nil, ErrInvalidDelay
	}

	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	nyquist := sampleRate / 2

	notches := make([]float64, 0, count)
	for k := 0; k < count; k++ {
		f := (float64(k) + 0.5) * sampleRate / float64(delaySamples)
		if f > nyquist {
			break
		}

		notches = append(notches, f)
	}

	return notches, nil
}
