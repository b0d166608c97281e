// Package sdfx implements kernel.Kernel on the github.com/deadsy/sdfx
// signed-distance-field library.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/obj"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// DefaultMeshCells is the marching cubes resolution used when none is given.
const DefaultMeshCells = 40

// meshNeighbors is how many nearby triangles are checked when evaluating a
// mesh solid.
const meshNeighbors = 16

const degenerateTolerance = 1e-9

type solid struct {
	s sdf.SDF3
}

func (s *solid) BoundingBox() (min, max core.Vec3) {
	bb := s.s.BoundingBox()
	return fromVec(bb.Min), fromVec(bb.Max)
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct {
	cells int
}

// New returns a kernel tessellating with the given number of marching cubes
// cells along the longest bounding-box axis.
func New(meshCells int) *Kernel {
	if meshCells <= 0 {
		meshCells = DefaultMeshCells
	}
	return &Kernel{cells: meshCells}
}

// MeshCells returns the tessellation resolution.
func (k *Kernel) MeshCells() int {
	return k.cells
}

func unwrap(s kernel.Solid) (sdf.SDF3, error) {
	w, ok := s.(*solid)
	if !ok || w == nil || w.s == nil {
		return nil, kernel.ErrForeignSolid
	}
	return w.s, nil
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &solid{s: s}
}

func toVec(v core.Vec3) v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func fromVec(v v3.Vec) core.Vec3 {
	return core.Vec3{v.X, v.Y, v.Z}
}

// Sphere creates a sphere centered on the origin.
func (k *Kernel) Sphere(radius float64) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere: %w", err)
	}
	return wrap(s), nil
}

// Box creates a box centered on the origin.
func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a Z-aligned cylinder centered on the origin.
func (k *Kernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return wrap(s), nil
}

// Capsule creates a Z-aligned capsule of total length height.
func (k *Kernel) Capsule(height, radius float64) (kernel.Solid, error) {
	s, err := sdf.Capsule3D(height, radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: capsule: %w", err)
	}
	return wrap(s), nil
}

// FromMesh builds a solid from a closed triangle mesh. Degenerate triangles
// are skipped.
func (k *Kernel) FromMesh(m *kernel.Mesh) (s kernel.Solid, err error) {
	if m.IsEmpty() {
		return nil, kernel.ErrEmptyMesh
	}

	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("sdfx: mesh solid panicked: %v", r)
		}
	}()

	vertex := func(i uint32) (v3.Vec, bool) {
		j := int(i) * 3
		if j+2 >= len(m.Vertices) {
			return v3.Vec{}, false
		}
		return v3.Vec{X: float64(m.Vertices[j]), Y: float64(m.Vertices[j+1]), Z: float64(m.Vertices[j+2])}, true
	}

	triangles := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, okA := vertex(m.Indices[i])
		b, okB := vertex(m.Indices[i+1])
		c, okC := vertex(m.Indices[i+2])
		if !okA || !okB || !okC {
			continue
		}
		t := &sdf.Triangle3{a, b, c}
		if t.Degenerate(degenerateTolerance) {
			continue
		}
		triangles = append(triangles, t)
	}
	if len(triangles) == 0 {
		return nil, kernel.ErrEmptyMesh
	}
	return wrap(obj.ImportTriMesh(triangles, meshNeighbors, 3, 5)), nil
}

// Boolean combines two solids.
func (k *Kernel) Boolean(op kernel.Op, a, b kernel.Solid) (kernel.Solid, error) {
	sa, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	switch op {
	case kernel.Union:
		return wrap(sdf.Union3D(sa, sb)), nil
	case kernel.Difference:
		return wrap(sdf.Difference3D(sa, sb)), nil
	case kernel.Intersection:
		return wrap(sdf.Intersect3D(sa, sb)), nil
	default:
		return nil, fmt.Errorf("sdfx: unsupported operator %s", op)
	}
}

// Translate moves a solid. Foreign solids are returned unchanged.
func (k *Kernel) Translate(s kernel.Solid, offset core.Vec3) kernel.Solid {
	ss, err := unwrap(s)
	if err != nil {
		return s
	}
	return wrap(sdf.Transform3D(ss, sdf.Translate3d(toVec(offset))))
}

// Rotate applies Euler angles in radians, X first.
func (k *Kernel) Rotate(s kernel.Solid, euler core.Vec3) kernel.Solid {
	ss, err := unwrap(s)
	if err != nil {
		return s
	}
	m := sdf.RotateX(euler[0]).Mul(sdf.RotateY(euler[1])).Mul(sdf.RotateZ(euler[2]))
	return wrap(sdf.Transform3D(ss, m))
}

// Scale scales a solid uniformly about the origin.
func (k *Kernel) Scale(s kernel.Solid, factor float64) kernel.Solid {
	ss, err := unwrap(s)
	if err != nil || factor <= 0 {
		return s
	}
	return wrap(sdf.ScaleUniform3D(ss, factor))
}

// ToMesh tessellates a solid with marching cubes. Backend panics are
// reported as errors.
func (k *Kernel) ToMesh(s kernel.Solid) (mesh *kernel.Mesh, err error) {
	ss, err := unwrap(s)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			mesh = nil
			err = fmt.Errorf("sdfx: tessellation panicked: %v", r)
		}
	}()

	triangles := render.ToTriangles(ss, render.NewMarchingCubesUniform(k.cells))
	if len(triangles) == 0 {
		return nil, kernel.ErrEmptyMesh
	}

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
