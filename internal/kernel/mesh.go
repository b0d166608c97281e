package kernel

import (
	"math"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
)

// Mesh is a triangle mesh ready for a renderer.
// Arrays are flat: 3 floats per vertex, 3 floats per normal, 3 indices per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0
}

// Bounds returns the axis-aligned bounds of all vertices.
// An empty mesh reports zero vectors.
func (m *Mesh) Bounds() (min, max core.Vec3) {
	if m.IsEmpty() {
		return core.Vec3{}, core.Vec3{}
	}
	min = core.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = core.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := float64(m.Vertices[i+a])
			if v < min[a] {
				min[a] = v
			}
			if v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	return &Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}
