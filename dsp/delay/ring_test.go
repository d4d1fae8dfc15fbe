package delay

import (
	"math"
	"testing"
)

func TestNewRingValidation(t *testing.T) {
	if _, err := NewRing(0, 16); err == nil {
		t.Fatal("NewRing() expected error for zero channels")
	}

	if _, err := NewRing(2, 0); err == nil {
		t.Fatal("NewRing() expected error for zero capacity")
	}
}

func TestRingWriteReadBack(t *testing.T) {
	r, err := NewRing(1, 16)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	src := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	if err := r.WriteBlock(0, src, 1); err != nil {
		t.Fatalf("WriteBlock() error = %v", err)
	}

	if err := r.Advance(len(src)); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	for j, want := range src {
		if got := r.ReadAt(0, len(src)-j); got != want {
			t.Fatalf("ReadAt(0, %d) = %v, want %v", len(src)-j, got, want)
		}
	}
}

func TestRingWrapSplit(t *testing.T) {
	r, err := NewRing(1, 10)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	first := []float64{1, 2, 3, 4, 5, 6}
	if err := r.WriteBlock(0, first, 1); err != nil {
		t.Fatalf("WriteBlock() error = %v", err)
	}

	if err := r.Advance(len(first)); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	// This block overshoots the tail: 4 samples land at the end, 2 wrap
	// to the start.
	second := []float64{10, 20, 30, 40, 50, 60}
	if err := r.WriteBlock(0, second, 1); err != nil {
		t.Fatalf("WriteBlock() error = %v", err)
	}

	if err := r.Advance(len(second)); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	for j, want := range second {
		if got := r.ReadAt(0, len(second)-j); got != want {
			t.Fatalf("ReadAt(0, %d) = %v, want %v", len(second)-j, got, want)
		}
	}

	// The oldest surviving samples of the first block are still behind
	// the second one.
	if got := r.ReadAt(0, 10); got != 3 {
		t.Fatalf("ReadAt(0, 10) = %v, want 3", got)
	}
}

func TestRingWriteBlockGain(t *testing.T) {
	r, err := NewRing(1, 8)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	src := []float64{1, -2, 3, -4}
	if err := r.WriteBlock(0, src, 0.5); err != nil {
		t.Fatalf("WriteBlock() error = %v", err)
	}

	if err := r.Advance(len(src)); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	for j, v := range src {
		want := 0.5 * v
		if got := r.ReadAt(0, len(src)-j); math.Abs(got-want) > 1e-15 {
			t.Fatalf("ReadAt(0, %d) = %v, want %v", len(src)-j, got, want)
		}
	}
}

func TestRingNegativeOffsetReadsAhead(t *testing.T) {
	r, err := NewRing(1, 8)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	src := []float64{1, 2, 3, 4}
	if err := r.WriteBlock(0, src, 1); err != nil {
		t.Fatalf("WriteBlock() error = %v", err)
	}

	// Cursor not advanced yet: sample j sits j samples ahead of it.
	for j, want := range src {
		if got := r.ReadAt(0, -j); got != want {
			t.Fatalf("ReadAt(0, %d) = %v, want %v", -j, got, want)
		}
	}
}

func TestRingWriteAt(t *testing.T) {
	r, err := NewRing(1, 8)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		r.WriteAt(0, i, float64(i)+1)
	}

	if err := r.Advance(4); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		want := float64(i) + 1
		if got := r.ReadAt(0, 4-i); got != want {
			t.Fatalf("ReadAt(0, %d) = %v, want %v", 4-i, got, want)
		}
	}
}

func TestRingAdvanceProtocol(t *testing.T) {
	r, err := NewRing(1, 8)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	if err := r.Advance(4); err == nil {
		t.Fatal("Advance() expected error before any write")
	}

	if err := r.WriteBlock(0, []float64{1, 2, 3, 4}, 1); err != nil {
		t.Fatalf("WriteBlock() error = %v", err)
	}

	if err := r.Advance(-1); err == nil {
		t.Fatal("Advance() expected error for negative count")
	}

	if err := r.Advance(4); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	if err := r.Advance(4); err == nil {
		t.Fatal("Advance() expected error for duplicate commit")
	}
}

func TestRingChannelsIndependent(t *testing.T) {
	r, err := NewRing(2, 8)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	if err := r.WriteBlock(0, []float64{1, 1, 1}, 1); err != nil {
		t.Fatalf("WriteBlock(0) error = %v", err)
	}

	if err := r.WriteBlock(1, []float64{2, 2, 2}, 1); err != nil {
		t.Fatalf("WriteBlock(1) error = %v", err)
	}

	if err := r.Advance(3); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	if got := r.ReadAt(0, 1); got != 1 {
		t.Fatalf("channel 0 ReadAt(1) = %v, want 1", got)
	}

	if got := r.ReadAt(1, 1); got != 2 {
		t.Fatalf("channel 1 ReadAt(1) = %v, want 2", got)
	}
}

func TestRingWriteBlockValidation(t *testing.T) {
	r, err := NewRing(1, 4)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	if err := r.WriteBlock(1, []float64{1}, 1); err == nil {
		t.Fatal("WriteBlock() expected error for channel out of range")
	}

	if err := r.WriteBlock(0, make([]float64, 5), 1); err == nil {
		t.Fatal("WriteBlock() expected error for block longer than capacity")
	}
}

func TestRingReset(t *testing.T) {
	r, err := NewRing(1, 8)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}

	if err := r.WriteBlock(0, []float64{1, 2, 3}, 1); err != nil {
		t.Fatalf("WriteBlock() error = %v", err)
	}

	if err := r.Advance(3); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	r.Reset()

	if r.WritePos() != 0 {
		t.Fatalf("WritePos() = %d, want 0 after reset", r.WritePos())
	}

	for off := 0; off < 8; off++ {
		if got := r.ReadAt(0, off); got != 0 {
			t.Fatalf("ReadAt(0, %d) = %v, want 0 after reset", off, got)
		}
	}

	if err := r.Advance(1); err == nil {
		t.Fatal("Advance() expected error directly after reset")
	}
}
