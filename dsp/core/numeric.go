package core

import "math"

const defaultEpsilon = 1e-12

// transpositionRangeSeconds is the delay-modulation headroom reserved
// beyond one block. It bounds the largest delay time an engine may be
// asked to modulate through, independent of runtime block size.
const transpositionRangeSeconds = 0.010

// TranspositionRange returns the transposition headroom in samples at the
// given sample rate: a fixed 10 ms.
func TranspositionRange(sampleRate float64) int {
	return int(transpositionRangeSeconds * sampleRate)
}

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value, min, max int) int {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops,
// particularly in decaying feedback paths.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}
