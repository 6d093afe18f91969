// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/payoff-chart/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent a quoted price.
// The exact binary value of val is rounded, halves away from zero, so the
// float64 nearest 1.005 (just below it) becomes 1.
func Round(val float64) float64 {
	return RoundPlaces(val, constants.RoundingPlaces)
}

// RoundPlaces rounds val to the given number of decimal places.
func RoundPlaces(val float64, places int32) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	return decimal.NewFromFloatWithExponent(val, -places).InexactFloat64()
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// Lerp returns the x at which the line through (x0, y0) and (x1, y1)
// reaches zero. Callers must ensure y0 != y1.
func Lerp(x0, y0, x1, y1 float64) float64 {
	t := (0 - y0) / (y1 - y0)
	return x0 + t*(x1-x0)
}
