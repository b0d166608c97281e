// Package kernel defines the solid-geometry capability used for carving.
// A Kernel builds primitive solids, combines two solids with a boolean
// operator and tessellates the result into a triangle mesh. The engine only
// depends on this interface, so the backend can be swapped freely.
package kernel

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
)

// ErrEmptyMesh is returned by ToMesh when a solid tessellates to nothing.
var ErrEmptyMesh = errors.New("kernel: empty mesh")

// ErrForeignSolid is returned when a Solid from another backend is passed in.
var ErrForeignSolid = errors.New("kernel: solid belongs to another backend")

// Op is a boolean operator between two solids.
type Op int

const (
	Union Op = iota
	Difference
	Intersection
)

// String returns the operator name.
func (o Op) String() string {
	switch o {
	case Union:
		return "union"
	case Difference:
		return "difference"
	case Intersection:
		return "intersection"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Solid is an opaque handle to a backend solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max core.Vec3)
}

// Kernel is the solid-geometry backend.
// Primitives are centered on the origin; cylinders and capsules run along Z.
type Kernel interface {
	Sphere(radius float64) (Solid, error)
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Capsule(height, radius float64) (Solid, error)

	// FromMesh builds a solid bounded by a closed mesh whose triangles wind
	// counter-clockwise seen from outside.
	FromMesh(m *Mesh) (Solid, error)

	// Boolean returns op(a, b), or a failure.
	Boolean(op Op, a, b Solid) (Solid, error)

	Translate(s Solid, offset core.Vec3) Solid
	Rotate(s Solid, euler core.Vec3) Solid // radians, X then Y then Z
	Scale(s Solid, k float64) Solid

	// ToMesh tessellates a solid. An empty result yields ErrEmptyMesh.
	ToMesh(s Solid) (*Mesh, error)
}
