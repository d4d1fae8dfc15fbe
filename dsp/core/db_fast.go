//go:build fastmath

package core

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10, used for log base conversions.
const ln10 = 2.302585092994045684017991454684

// DBToLinear converts dB to linear amplitude (20*log10 convention).
// Uses the identity 10^x = e^(x * ln(10)) with a fast exp approximation.
func DBToLinear(db float64) float64 {
	return approx.FastExp(db / 20 * ln10)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * approx.FastLog(linear) / ln10
}
