package utils

import (
	"fmt"
	"math"
)

// ToPointer returns a pointer to the given value.
func ToPointer[T any](value T) *T {
	return &value
}

// Round2 rounds to two decimal places. Analytics series round at every
// step, not only at the end, so intermediate values stay reproducible.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ProfitColor maps a profit percentage onto the rgba background used by
// the front end. Intensity scales how fast the color saturates.
func ProfitColor(profit, intensity float64) string {
	if intensity <= 0 {
		intensity = 1
	}
	scaled := profit / intensity
	if scaled >= 0 {
		green := int(math.Min(255, math.Floor(scaled*255)))
		return fmt.Sprintf("rgba(0, %d, 0, 0.7)", green)
	}
	red := int(math.Min(255, math.Floor(math.Abs(scaled)*255)))
	return fmt.Sprintf("rgba(%d, 0, 0, 0.9)", red)
}
