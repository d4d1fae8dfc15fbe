package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modfx/dsp/core"
	"github.com/cwbudde/algo-modfx/dsp/delay"
	"github.com/cwbudde/algo-modfx/dsp/interp"
	"github.com/cwbudde/algo-modfx/dsp/lfo"
)

const (
	defaultFlangerRateHz   = 0.25
	defaultFlangerDepth    = 0.5
	defaultFlangerFeedback = 0.0

	maxFlangerFeedback = 0.99
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	blockSize int
	channels  int
	rateHz    float64
	depth     float64
	feedback  float64
}

func defaultFlangerConfig() flangerConfig {
	cfg := core.DefaultProcessorConfig()

	return flangerConfig{
		blockSize: cfg.BlockSize,
		channels:  cfg.Channels,
		rateHz:    defaultFlangerRateHz,
		depth:     defaultFlangerDepth,
		feedback:  defaultFlangerFeedback,
	}
}

// WithFlangerBlockSize sets the expected samples per host block.
func WithFlangerBlockSize(blockSize int) FlangerOption {
	return func(cfg *flangerConfig) error {
		if blockSize <= 0 {
			return fmt.Errorf("flanger block size must be > 0: %d", blockSize)
		}

		cfg.blockSize = blockSize

		return nil
	}
}

// WithFlangerChannels sets the channel count.
func WithFlangerChannels(channels int) FlangerOption {
	return func(cfg *flangerConfig) error {
		if channels <= 0 {
			return fmt.Errorf("flanger channels must be > 0: %d", channels)
		}

		cfg.channels = channels

		return nil
	}
}

// WithFlangerRateHz sets modulation speed in Hz. Zero freezes the sweep.
func WithFlangerRateHz(rateHz float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if rateHz < 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("flanger rate must be >= 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithFlangerDepth sets the wet-tap gain.
func WithFlangerDepth(depth float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("flanger depth must be >= 0 and finite: %f", depth)
		}

		cfg.depth = depth

		return nil
	}
}

// WithFlangerFeedback sets feedback amount in [-0.99, 0.99].
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(cfg *flangerConfig) error {
		if feedback < -maxFlangerFeedback || feedback > maxFlangerFeedback ||
			math.IsNaN(feedback) || math.IsInf(feedback, 0) {
			return fmt.Errorf("flanger feedback must be in [-%0.2f, %0.2f]: %f",
				maxFlangerFeedback, maxFlangerFeedback, feedback)
		}

		cfg.feedback = feedback

		return nil
	}
}

// Flanger is a comb-filter effect built on one shared delay line per
// channel read at a sine-swept offset, with an optional feedback line that
// turns the FIR comb into an IIR one.
//
// When feedback is zero the dry signal is mixed in and the output is
// dry + depth*delayed; with nonzero feedback the dry term is dropped and
// the output is depth*delayed + feedback*previousOutput.
type Flanger struct {
	sampleRate float64
	blockSize  int
	channels   int

	depth    float64
	feedback float64

	mod      *lfo.Sine
	delayBuf *delay.Ring
	fbBuf    *delay.Ring

	transposition int
}

// NewFlanger creates a flanger with buffers sized for the configured block
// size plus the fixed transposition headroom. All allocation happens here;
// ProcessChannel never allocates.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("flanger sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultFlangerConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	transposition := core.TranspositionRange(sampleRate)
	capacity := cfg.blockSize + transposition

	delayBuf, err := delay.NewRing(cfg.channels, capacity)
	if err != nil {
		return nil, err
	}

	fbBuf, err := delay.NewRing(cfg.channels, capacity)
	if err != nil {
		return nil, err
	}

	mod, err := lfo.NewSine(sampleRate, cfg.channels)
	if err != nil {
		return nil, err
	}

	err = mod.SetFreqHz(cfg.rateHz)
	if err != nil {
		return nil, err
	}

	return &Flanger{
		sampleRate:    sampleRate,
		blockSize:     cfg.blockSize,
		channels:      cfg.channels,
		depth:         cfg.depth,
		feedback:      cfg.feedback,
		mod:           mod,
		delayBuf:      delayBuf,
		fbBuf:         fbBuf,
		transposition: transposition,
	}, nil
}

// ProcessChannel applies the flanger to one channel's block in place.
//
// The block is first copied into the delay line at unity gain, then each
// output sample blends the two delay taps bracketing the sine-modulated
// delay time, mixes the feedback taps at the same offsets, and records the
// result in the feedback line. The shared write cursors stay put; after
// every channel of the block has been processed the caller must invoke
// AdvanceDelayWritePosition and AdvanceFeedbackWritePosition once each
// with the block length.
//
// maxDelaySamples is clamped to the transposition headroom so delayed
// reads can never alias the region being written.
func (f *Flanger) ProcessChannel(channel int, buf []float64, maxDelaySamples int, outputGain float64) error {
	if channel < 0 || channel >= f.channels {
		return fmt.Errorf("flanger channel out of range [0, %d): %d", f.channels, channel)
	}

	if len(buf) > f.blockSize {
		return fmt.Errorf("flanger block length %d exceeds configured block size %d", len(buf), f.blockSize)
	}

	maxDelaySamples = core.ClampInt(maxDelaySamples, 0, f.transposition)

	err := f.delayBuf.WriteBlock(channel, buf, 1)
	if err != nil {
		return err
	}

	maxDelay := float64(maxDelaySamples)

	for i := range buf {
		delayTime := maxDelay * f.mod.Next(channel)
		d := int(delayTime)
		frac := delayTime - float64(d)

		// Offsets d-i and d+1-i track the write position advancing
		// through the block while the cursor is still uncommitted.
		wet := interp.Lerp(frac,
			f.delayBuf.ReadAt(channel, d-i),
			f.delayBuf.ReadAt(channel, d+1-i))
		fb := interp.Lerp(frac,
			f.fbBuf.ReadAt(channel, d-i),
			f.fbBuf.ReadAt(channel, d+1-i))

		out := f.depth*wet + f.feedback*fb
		if f.feedback == 0 {
			out += buf[i]
		}

		f.fbBuf.WriteAt(channel, i, core.FlushDenormals(out))

		buf[i] = outputGain * out
	}

	return nil
}

// AdvanceDelayWritePosition commits one processed block of n samples to
// the delay line. Call exactly once per block, after the channel loop.
func (f *Flanger) AdvanceDelayWritePosition(n int) error {
	return f.delayBuf.Advance(n)
}

// AdvanceFeedbackWritePosition commits one processed block of n samples
// to the feedback line. Call exactly once per block, after the channel
// loop.
func (f *Flanger) AdvanceFeedbackWritePosition(n int) error {
	return f.fbBuf.Advance(n)
}

// SetDepth sets the wet-tap gain.
func (f *Flanger) SetDepth(depth float64) error {
	if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("flanger depth must be >= 0 and finite: %f", depth)
	}

	f.depth = depth

	return nil
}

// SetFeedback sets feedback amount in [-0.99, 0.99]. The bound keeps the
// recursive path contractive, so output stays bounded for bounded input.
func (f *Flanger) SetFeedback(feedback float64) error {
	if feedback < -maxFlangerFeedback || feedback > maxFlangerFeedback ||
		math.IsNaN(feedback) || math.IsInf(feedback, 0) {
		return fmt.Errorf("flanger feedback must be in [-%0.2f, %0.2f]: %f",
			maxFlangerFeedback, maxFlangerFeedback, feedback)
	}

	f.feedback = feedback

	return nil
}

// SetRateHz sets modulation speed in Hz. Zero freezes the sweep at the
// current phase.
func (f *Flanger) SetRateHz(rateHz float64) error {
	return f.mod.SetFreqHz(rateHz)
}

// Reset clears both delay lines and rewinds the modulator phases.
func (f *Flanger) Reset() {
	f.delayBuf.Reset()
	f.fbBuf.Reset()
	f.mod.Reset()
}

// SampleRate returns the sample rate in Hz.
func (f *Flanger) SampleRate() float64 { return f.sampleRate }

// BlockSize returns the configured samples per block.
func (f *Flanger) BlockSize() int { return f.blockSize }

// Channels returns the channel count.
func (f *Flanger) Channels() int { return f.channels }

// Depth returns the wet-tap gain.
func (f *Flanger) Depth() float64 { return f.depth }

// Feedback returns the feedback amount.
func (f *Flanger) Feedback() float64 { return f.feedback }

// RateHz returns modulation speed in Hz.
func (f *Flanger) RateHz() float64 { return f.mod.FreqHz() }

// TranspositionRange returns the delay headroom in samples; the largest
// usable maxDelaySamples.
func (f *Flanger) TranspositionRange() int { return f.transposition }
