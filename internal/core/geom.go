// Package core provides fundamental types and utilities for the game platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Vec2 is a point on the ground plane: X is lateral, Z is longitudinal
// (negative Z is ahead of the player).
type Vec2 struct {
	X, Z float64
}

// Distance returns the Euclidean distance between two ground points.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Z-o.Z)
}

// Lerp moves a toward b by fraction t, with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*ClampF(t, 0, 1)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
