// Package core provides fundamental types shared by the engine and the
// platform layer: a colored character Screen, 2D rectangles, 3D vector
// helpers and runtime configuration. It has no Bubble Tea dependency so the
// engine stays pure and testable.
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the render-space vector type used across the engine.
type Vec3 = mgl64.Vec3

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// EulerMatrix returns the rotation matrix for Euler angles (radians) applied
// in X, then Y, then Z order.
func EulerMatrix(rot Vec3) mgl64.Mat3 {
	return mgl64.Rotate3DX(rot[0]).Mul3(mgl64.Rotate3DY(rot[1])).Mul3(mgl64.Rotate3DZ(rot[2]))
}

// WorldToLocal maps a world-space point into the local frame of an object
// with the given position, Euler rotation and uniform scale.
func WorldToLocal(p, position, rotation Vec3, scale float64) Vec3 {
	if scale == 0 {
		scale = 1
	}
	rel := p.Sub(position)
	// Rotation matrices are orthonormal: the transpose is the inverse.
	return EulerMatrix(rotation).Transpose().Mul3x1(rel).Mul(1 / scale)
}

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
