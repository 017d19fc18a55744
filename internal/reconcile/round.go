package reconcile

import "math"

// Rounding directions for roundSig.
const (
	roundDown    = -1
	roundNearest = 0
	roundUp      = 1
)

// roundSig rounds v to n significant digits in the given direction. Zero
// and NaN have no significant digits and yield NaN.
func roundSig(v float64, n, dir int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN()
	}
	exp := int(math.Floor(math.Log10(math.Abs(v)))) - (n - 1)
	x := scale(v, -exp)
	// Division leaves residue such as 1120.0000000000002; snap it before
	// rounding so that exact values are not bumped a digit.
	if r := math.Round(x); math.Abs(x-r) < 1e-9*math.Max(1, math.Abs(x)) {
		x = r
	}
	switch {
	case dir > 0:
		x = math.Ceil(x)
	case dir < 0:
		x = math.Floor(x)
	default:
		x = math.Round(x)
	}
	return scale(x, exp)
}

// scale multiplies by 10^k, dividing for negative k to keep decimal
// fractions exact where possible.
func scale(v float64, k int) float64 {
	if k >= 0 {
		return v * math.Pow10(k)
	}
	return v / math.Pow10(-k)
}

// nullable maps NaN to nil so that sinks see a null.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
