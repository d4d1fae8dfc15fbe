package delay

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-modfx/dsp/core"
)

// Ring is a fixed-capacity multi-channel circular sample buffer with a
// single write cursor shared by all channels.
//
// Writes land at the cursor, reads are taken at offsets behind it, and the
// cursor itself only moves when Advance commits a completed block. The
// deferred commit lets every channel of one block be written against the
// same cursor value, which is required when one engine serves several
// channels from sequential per-channel calls.
//
// Capacity must exceed the block length plus the largest delay offset that
// will be read; otherwise reads alias samples of the block being written.
// Sizing is the owner's responsibility.
type Ring struct {
	data     [][]float64
	capacity int
	writePos int
	pending  bool
}

// NewRing returns a zero-filled ring with the given channel count and
// per-channel capacity in samples.
func NewRing(channels, capacity int) (*Ring, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("ring channels must be > 0: %d", channels)
	}

	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}

	data := make([][]float64, channels)
	for c := range data {
		data[c] = make([]float64, capacity)
	}

	return &Ring{data: data, capacity: capacity}, nil
}

// Len returns the per-channel capacity in samples.
func (r *Ring) Len() int { return r.capacity }

// Channels returns the channel count.
func (r *Ring) Channels() int { return len(r.data) }

// WritePos returns the current shared write cursor.
func (r *Ring) WritePos() int { return r.writePos }

// WriteBlock copies src into the channel's ring starting at the shared
// write cursor, scaling every sample by gain. A run that overshoots the
// buffer tail is split into a tail copy and a wrapped copy from index 0.
// The cursor is not advanced; call Advance once per block after all
// channels have been written.
func (r *Ring) WriteBlock(channel int, src []float64, gain float64) error {
	if channel < 0 || channel >= len(r.data) {
		return fmt.Errorf("ring channel out of range [0, %d): %d", len(r.data), channel)
	}

	if len(src) > r.capacity {
		return fmt.Errorf("ring block length %d exceeds capacity %d", len(src), r.capacity)
	}

	dst := r.data[channel]
	head := r.capacity - r.writePos

	if len(src) <= head {
		copyWithGain(dst[r.writePos:r.writePos+len(src)], src, gain)
	} else {
		copyWithGain(dst[r.writePos:], src[:head], gain)
		copyWithGain(dst[:len(src)-head], src[head:], gain)
	}

	r.pending = true

	return nil
}

// ReadAt returns the sample offset samples behind the shared write cursor.
// Offsets are normalized mod capacity, so callers tracking a read point
// that moves forward within a block may pass values outside [0, capacity).
// The channel index is not range-checked; owners validate it once per
// block before entering their sample loops.
func (r *Ring) ReadAt(channel, offset int) float64 {
	idx := (r.writePos - offset) % r.capacity
	if idx < 0 {
		idx += r.capacity
	}

	return r.data[channel][idx]
}

// WriteAt stores v at offset samples ahead of the shared write cursor,
// wrapped mod capacity. This is the per-sample write used by feedback
// paths, which fill the region the next Advance will commit.
func (r *Ring) WriteAt(channel, offset int, v float64) {
	idx := (r.writePos + offset) % r.capacity
	if idx < 0 {
		idx += r.capacity
	}

	r.data[channel][idx] = v
	r.pending = true
}

// Advance commits a completed block by moving the shared write cursor n
// samples forward, wrapped mod capacity. It must be called exactly once
// per block, strictly after every channel has been written; a second call
// without an intervening write is a protocol violation and returns an
// error without moving the cursor.
func (r *Ring) Advance(n int) error {
	if n < 0 {
		return fmt.Errorf("ring advance count must be >= 0: %d", n)
	}

	if !r.pending {
		return fmt.Errorf("ring advance without a written block")
	}

	r.writePos = (r.writePos + n) % r.capacity
	r.pending = false

	return nil
}

// Reset zeroes all channels and rewinds the write cursor.
func (r *Ring) Reset() {
	for c := range r.data {
		core.Zero(r.data[c])
	}

	r.writePos = 0
	r.pending = false
}

func copyWithGain(dst, src []float64, gain float64) {
	if gain == 1 {
		copy(dst, src)
		return
	}

	vecmath.ScaleBlock(dst, src, gain)
}
