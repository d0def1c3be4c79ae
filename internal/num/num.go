// Package num provides small numeric helpers shared across the core.
package num

import "golang.org/x/exp/constraints"

// Clamp restricts v to the inclusive range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Unit restricts v to [0, 1].
func Unit(v float64) float64 {
	return Clamp(v, 0.0, 1.0)
}

// Signed restricts v to [-1, 1].
func Signed(v float64) float64 {
	return Clamp(v, -1.0, 1.0)
}

// RoundTo rounds v to the nearest multiple of step.
func RoundTo(v, step int) int {
	if step <= 0 {
		return v
	}
	half := step / 2
	if v >= 0 {
		return ((v + half) / step) * step
	}
	return -((-v + half) / step) * step
}
