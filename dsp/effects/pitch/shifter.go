package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modfx/dsp/core"
	"github.com/cwbudde/algo-modfx/dsp/delay"
	"github.com/cwbudde/algo-modfx/dsp/interp"
	"github.com/cwbudde/algo-modfx/dsp/lfo"
)

const (
	defaultShifterRateHz = 5.0

	// antiPhase is the initial offset of the second sawtooth ramp. The
	// phases evolve independently afterwards; with a shared frequency
	// their gain-zero masking points never drift apart.
	antiPhase = 0.5
)

// Direction selects the sweep direction of the sawtooth ramps and with it
// the sign of the pitch change.
type Direction int

const (
	// PitchDown sweeps delay time from 0 to maxDelay, reading ever
	// further behind the cursor and lowering pitch.
	PitchDown Direction = iota
	// PitchUp sweeps delay time from maxDelay to 0, raising pitch.
	PitchUp
)

// String returns the direction name.
func (d Direction) String() string {
	if d == PitchUp {
		return "up"
	}

	return "down"
}

// ShifterOption mutates shifter construction parameters.
type ShifterOption func(*shifterConfig) error

type shifterConfig struct {
	blockSize int
	channels  int
	rateHz    float64
	direction Direction
}

func defaultShifterConfig() shifterConfig {
	cfg := core.DefaultProcessorConfig()

	return shifterConfig{
		blockSize: cfg.BlockSize,
		channels:  cfg.Channels,
		rateHz:    defaultShifterRateHz,
		direction: PitchDown,
	}
}

// WithShifterBlockSize sets the expected samples per host block.
func WithShifterBlockSize(blockSize int) ShifterOption {
	return func(cfg *shifterConfig) error {
		if blockSize <= 0 {
			return fmt.Errorf("shifter block size must be > 0: %d", blockSize)
		}

		cfg.blockSize = blockSize

		return nil
	}
}

// WithShifterChannels sets the channel count.
func WithShifterChannels(channels int) ShifterOption {
	return func(cfg *shifterConfig) error {
		if channels <= 0 {
			return fmt.Errorf("shifter channels must be > 0: %d", channels)
		}

		cfg.channels = channels

		return nil
	}
}

// WithShifterRateHz sets the sawtooth sweep rate in Hz. Together with the
// delay range it determines the transposition interval.
func WithShifterRateHz(rateHz float64) ShifterOption {
	return func(cfg *shifterConfig) error {
		if rateHz < 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("shifter rate must be >= 0 and finite: %f", rateHz)
		}

		cfg.rateHz = rateHz

		return nil
	}
}

// WithShifterDirection sets the pitch direction.
func WithShifterDirection(direction Direction) ShifterOption {
	return func(cfg *shifterConfig) error {
		if direction != PitchDown && direction != PitchUp {
			return fmt.Errorf("shifter direction must be PitchDown or PitchUp: %d", direction)
		}

		cfg.direction = direction

		return nil
	}
}

// Shifter is a Doppler-style pitch shifter: two delay taps swept by
// anti-phase sawtooth ramps over one shared delay buffer, crossfaded by
// sine envelopes. No dry signal is mixed in.
type Shifter struct {
	sampleRate float64
	blockSize  int
	channels   int

	direction Direction

	saw1 *lfo.Saw
	saw2 *lfo.Saw

	delayBuf *delay.Ring

	transposition int
}

// NewShifter creates a pitch shifter with its delay buffer sized for the
// configured block size plus the fixed transposition headroom. All
// allocation happens here; ProcessChannel never allocates.
func NewShifter(sampleRate float64, opts ...ShifterOption) (*Shifter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("shifter sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultShifterConfig()

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

	delayBuf, err := delay.NewRing(cfg.channels, cfg.blockSize+transposition)
	if err != nil {
		return nil, err
	}

	saw1, err := lfo.NewSaw(sampleRate, cfg.channels)
	if err != nil {
		return nil, err
	}

	saw2, err := lfo.NewSaw(sampleRate, cfg.channels)
	if err != nil {
		return nil, err
	}

	for c := 0; c < cfg.channels; c++ {
		err = saw2.SetPhase(c, antiPhase)
		if err != nil {
			return nil, err
		}
	}

	s := &Shifter{
		sampleRate:    sampleRate,
		blockSize:     cfg.blockSize,
		channels:      cfg.channels,
		direction:     cfg.direction,
		saw1:          saw1,
		saw2:          saw2,
		delayBuf:      delayBuf,
		transposition: transposition,
	}

	err = s.SetRateHz(cfg.rateHz)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// ProcessChannel applies the pitch shift to one channel's block in place.
//
// The block is copied into the delay line at unity gain, then each output
// sample sums the two ramp-swept taps weighted by their crossfade gains.
// Delay times are truncated to whole samples; the crossfade suppresses
// the resulting zipper noise along with the ramp resets. The shared write
// cursor stays put; after every channel of the block has been processed
// the caller must invoke AdvanceWritePosition once with the block length.
//
// maxDelaySamples is clamped to the transposition headroom so delayed
// reads can never alias the region being written.
func (s *Shifter) ProcessChannel(channel int, buf []float64, maxDelaySamples int, outputGain float64) error {
	if channel < 0 || channel >= s.channels {
		return fmt.Errorf("shifter channel out of range [0, %d): %d", s.channels, channel)
	}

	if len(buf) > s.blockSize {
		return fmt.Errorf("shifter block length %d exceeds configured block size %d", len(buf), s.blockSize)
	}

	maxDelaySamples = core.ClampInt(maxDelaySamples, 0, s.transposition)

	err := s.delayBuf.WriteBlock(channel, buf, 1)
	if err != nil {
		return err
	}

	maxDelay := float64(maxDelaySamples)

	for i := range buf {
		delayTime1 := s.delayTime(s.saw1.Next(channel), maxDelay)
		delayTime2 := s.delayTime(s.saw2.Next(channel), maxDelay)

		gain1 := interp.CrossfadeGain(delayTime1, maxDelay)
		gain2 := interp.CrossfadeGain(delayTime2, maxDelay)

		// Offsets track the write position advancing through the block
		// while the cursor is still uncommitted.
		tap1 := s.delayBuf.ReadAt(channel, int(delayTime1)-i)
		tap2 := s.delayBuf.ReadAt(channel, int(delayTime2)-i)

		buf[i] = outputGain * (gain1*tap1 + gain2*tap2)
	}

	return nil
}

// AdvanceWritePosition commits one processed block of n samples to the
// delay line. Call exactly once per block, after the channel loop.
func (s *Shifter) AdvanceWritePosition(n int) error {
	return s.delayBuf.Advance(n)
}

// SetRateHz sets the sawtooth sweep rate in Hz for both ramps. Changing
// the rate never touches the phases, so the anti-phase relationship of
// the two ramps survives rate changes applied between blocks.
func (s *Shifter) SetRateHz(rateHz float64) error {
	err := s.saw1.SetFreqHz(rateHz)
	if err != nil {
		return err
	}

	return s.saw2.SetFreqHz(rateHz)
}

// SetDirection sets the pitch direction.
func (s *Shifter) SetDirection(direction Direction) error {
	if direction != PitchDown && direction != PitchUp {
		return fmt.Errorf("shifter direction must be PitchDown or PitchUp: %d", direction)
	}

	s.direction = direction

	return nil
}

// Reset clears the delay line and restores both ramps to their initial
// anti-phase positions.
func (s *Shifter) Reset() {
	s.delayBuf.Reset()
	s.saw1.Reset()
	s.saw2.Reset()
}

// SampleRate returns the sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// BlockSize returns the configured samples per block.
func (s *Shifter) BlockSize() int { return s.blockSize }

// Channels returns the channel count.
func (s *Shifter) Channels() int { return s.channels }

// RateHz returns the sawtooth sweep rate in Hz.
func (s *Shifter) RateHz() float64 { return s.saw1.FreqHz() }

// Direction returns the pitch direction.
func (s *Shifter) Direction() Direction { return s.direction }

// TranspositionRange returns the delay headroom in samples; the largest
// usable maxDelaySamples.
func (s *Shifter) TranspositionRange() int { return s.transposition }

func (s *Shifter) delayTime(phase, maxDelay float64) float64 {
	if s.direction == PitchUp {
		return maxDelay * (1 - phase)
	}

	return maxDelay * phase
}
