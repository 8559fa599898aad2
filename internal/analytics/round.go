package analytics

import "math"

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// roundCents rounds a fractional cent amount to whole cents, clamping to
// the int64 range so runaway simulations cannot overflow the conversion.
func roundCents(v float64) int64 {
	r := math.Round(v)
	if r >= math.MaxInt64 {
		return math.MaxInt64
	}
	if r <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(r)
}

func ptr(v float64) *float64 {
	return &v
}
