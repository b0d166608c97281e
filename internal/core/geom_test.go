package core

import (
	"math"
	"testing"
)

func approxVec(a, b Vec3) bool {
	const eps = 1e-9
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps && math.Abs(a[2]-b[2]) < eps
}

func TestDistance(t *testing.T) {
	d := Distance(Vec3{0, 0, 0}, Vec3{3, 4, 0})
	if d != 5 {
		t.Errorf("Distance() = %f, expected 5", d)
	}
}

func TestWorldToLocal(t *testing.T) {
	tests := []struct {
		name     string
		p        Vec3
		pos      Vec3
		rot      Vec3
		scale    float64
		expected Vec3
	}{
		{
			name:     "identity",
			p:        Vec3{1, 2, 3},
			scale:    1,
			expected: Vec3{1, 2, 3},
		},
		{
			name:     "translated",
			p:        Vec3{1, 2, 3},
			pos:      Vec3{1, 1, 1},
			scale:    1,
			expected: Vec3{0, 1, 2},
		},
		{
			name:     "scaled",
			p:        Vec3{2, 0, 0},
			scale:    2,
			expected: Vec3{1, 0, 0},
		},
		{
			name:     "rotated quarter turn about Y",
			p:        Vec3{1, 0, 0},
			rot:      Vec3{0, math.Pi / 2, 0},
			scale:    1,
			expected: Vec3{0, 0, 1},
		},
		{
			name:     "zero scale treated as one",
			p:        Vec3{1, 0, 0},
			scale:    0,
			expected: Vec3{1, 0, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WorldToLocal(tc.p, tc.pos, tc.rot, tc.scale)
			if !approxVec(got, tc.expected) {
				t.Errorf("WorldToLocal() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	rot := Vec3{0.3, -1.1, 2.0}
	pos := Vec3{0.5, -0.25, 1}
	local := Vec3{0.1, 0.2, -0.3}

	world := EulerMatrix(rot).Mul3x1(local.Mul(1.5)).Add(pos)
	back := WorldToLocal(world, pos, rot, 1.5)
	if !approxVec(back, local) {
		t.Errorf("round trip = %v, expected %v", back, local)
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
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClampFAndLerp(t *testing.T) {
	if ClampF(-1, 0, 1) != 0 || ClampF(2, 0, 1) != 1 || ClampF(0.5, 0, 1) != 0.5 {
		t.Error("ClampF returned an out-of-range value")
	}
	if Lerp(2, 4, 0.5) != 3 {
		t.Errorf("Lerp(2, 4, 0.5) = %f, expected 3", Lerp(2, 4, 0.5))
	}
}

func TestRuntimeConfigAspect(t *testing.T) {
	cfg := RuntimeConfig{ScreenW: 80, ScreenH: 20}
	if cfg.Aspect() != 2 {
		t.Errorf("Aspect() = %f, expected 2", cfg.Aspect())
	}
	if (RuntimeConfig{}).Aspect() != 1 {
		t.Error("zero-sized config should fall back to aspect 1")
	}
}
