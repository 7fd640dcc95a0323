package core

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); got != V(4, 2) {
		t.Errorf("Add() = %v, expected (4, 2)", got)
	}
	if got := a.Sub(b); got != V(2, 6) {
		t.Errorf("Sub() = %v, expected (2, 6)", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale() = %v, expected (6, 8)", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len() = %f, expected 5", got)
	}
}

func TestVec2Dist(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec2
		expected float64
	}{
		{"same point", V(1, 1), V(1, 1), 0},
		{"horizontal", V(0, 0), V(10, 0), 10},
		{"vertical", V(0, -5), V(0, 5), 10},
		{"diagonal", V(0, 0), V(3, 4), 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Dist(tc.b); got != tc.expected {
				t.Errorf("Dist() = %f, expected %f", got, tc.expected)
			}
			// Also test symmetry
			if got := tc.b.Dist(tc.a); got != tc.expected {
				t.Errorf("Dist() (reversed) = %f, expected %f", got, tc.expected)
			}
		})
	}
}

func TestVec2Normalize(t *testing.T) {
	n := V(3, 4).Normalize()
	if math.Abs(n.Len()-1) > 1e-9 {
		t.Errorf("Normalize().Len() = %f, expected 1", n.Len())
	}
	if math.Abs(n.X-0.6) > 1e-9 || math.Abs(n.Y-0.8) > 1e-9 {
		t.Errorf("Normalize() = %v, expected (0.6, 0.8)", n)
	}

	zero := Vec2{}.Normalize()
	if zero != (Vec2{}) {
		t.Errorf("Normalize() of zero vector = %v, expected zero", zero)
	}
	if !zero.IsFinite() {
		t.Error("Normalize() of zero vector should be finite")
	}
}

func TestVec2IsFinite(t *testing.T) {
	if !V(1, 2).IsFinite() {
		t.Error("(1, 2) should be finite")
	}
	if V(math.NaN(), 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if V(0, math.Inf(1)).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 10, 6).Inset(1)
	if r != NewRect(1, 1, 8, 4) {
		t.Errorf("Inset(1) = %+v, expected {1 1 8 4}", r)
	}

	tiny := NewRect(0, 0, 1, 1).Inset(2)
	if tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inset beyond size = %+v, expected zero size", tiny)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}
