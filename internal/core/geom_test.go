package core

import (
	"math"
	"testing"
)

func TestVec2Distance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec2
		expected float64
	}{
		{"same point", Vec2{1, 1}, Vec2{1, 1}, 0},
		{"lateral only", Vec2{0, 0}, Vec2{3, 0}, 3},
		{"longitudinal only", Vec2{0, 0}, Vec2{0, -2}, 2},
		{"diagonal", Vec2{0, 0}, Vec2{3, 4}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Distance(tc.b)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Distance() = %f, expected %f", got, tc.expected)
			}
			// Also test symmetry
			if back := tc.b.Distance(tc.a); math.Abs(back-got) > 1e-9 {
				t.Errorf("Distance() not symmetric: %f vs %f", got, back)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t, expected float64
	}{
		{0, 10, 0, 0},
		{0, 10, 0.5, 5},
		{0, 10, 1, 10},
		{0, 10, 2, 10}, // clamped above
		{0, 10, -1, 0}, // clamped below
		{-3, 3, 0.25, -1.5},
	}

	for _, tc := range tests {
		if got := Lerp(tc.a, tc.b, tc.t); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Lerp(%f, %f, %f) = %f, expected %f", tc.a, tc.b, tc.t, got, tc.expected)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(-5) != 5 || Abs(5) != 5 || Abs(0) != 0 {
		t.Error("Abs returned wrong value")
	}
}
