// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/swing-o-matic/pkg/constants"
)

// Clamp bounds val to the closed interval [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Clamp01 bounds val to [0, 1], the valid range of a vote or group share.
func Clamp01(val float64) float64 {
	return Clamp(val, 0, 1)
}

// RoundTo rounds val to the given number of decimal places.
func RoundTo(val float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// SumsToOne reports whether total is 1.0 within the share tolerance.
func SumsToOne(total float64) bool {
	return WithinTolerance(total, 1.0, constants.ShareTolerance)
}

// Finite reports whether val is neither NaN nor infinite.
func Finite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// ToPoints converts a fraction into percentage points.
func ToPoints(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}

// ToFraction converts percentage points into a fraction.
func ToFraction(points float64) float64 {
	return points / constants.PercentageMultiplier
}
