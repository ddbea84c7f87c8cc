package scale

import (
	"fmt"
	"math"
)

// Floor is the smallest unscaled magnitude a transform can produce
const Floor = 1.0

// Length transforms raw under mode and multiplies by axisScale.
// The result is never smaller than Floor*axisScale.
//
// raw must be a non-negative number; ordering stations so gaps stay positive is the
// caller's job, and a negative or NaN magnitude panics.
func Length(raw float64, mode Mode, axisScale float64) float64 {
	if raw < 0 || math.IsNaN(raw) {
		panic(fmt.Sprintf("scale: negative magnitude %v", raw))
	}
	return math.Max(transform(raw, mode), Floor) * axisScale
}

func transform(x float64, mode Mode) float64 {
	switch mode {
	case Auto, Linear:
		return x
	case Logarithmic:
		// ln(0) is -Inf, the floor takes over
		return math.Log(x)
	case Square:
		return x * x
	case SquareRoot:
		return math.Sqrt(x)
	case Uniform:
		return 1
	}
	panic(fmt.Sprintf("scale: unhandled mode %v", mode))
}
