// Package algo has numeric helpers shared by scoring, ranking and reports.
package algo

import (
	"math"

	"github.com/huangsam/storecheck/schema"
)

// RoundHalfUp rounds to the nearest integer with halves going up (2.5 -> 3, -2.5 -> -2).
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// SafePercent returns round-half-up 100*earned/possible, or 0 when nothing was possible.
func SafePercent(earned, possible float64) int {
	if possible <= 0 {
		return 0
	}
	return RoundHalfUp(100 * earned / possible)
}

// RawPercent returns 100*part/whole without rounding, or 0 for an empty whole.
func RawPercent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// BucketPoints maps a percentage of correct answers onto the coarse pass/partial/fail rubric.
// The bands are a step function and must not be interpolated.
func BucketPoints(percentCorrect float64) float64 {
	switch {
	case percentCorrect >= schema.BucketHighThreshold:
		return schema.BucketHighPoints
	case percentCorrect >= schema.BucketLowThreshold:
		return schema.BucketLowPoints
	default:
		return 0
	}
}
