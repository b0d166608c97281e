package scene

import (
	"fmt"
	"math"
	"sync"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
)

// Nominal fruit dimensions in render units, before the per-kind target scale.
const (
	AppleRadius   = 0.3
	StemHeight    = 0.15
	StemRadius    = 0.02
	BananaLength  = 0.8
	BananaRadius  = 0.12
	BeadRadius    = 0.03
	ShardSize     = 0.05
	leafLength    = 0.12
	leafThickness = 0.02
	leafWidth     = 0.06
	leafTilt      = 0.5
)

// Builder produces procedural fruit models and the shared particle meshes.
type Builder struct {
	kernel  kernel.Kernel
	tracker *Tracker

	once  sync.Once
	bead  *kernel.Mesh
	shard *kernel.Mesh
	err   error
}

// NewBuilder creates a builder allocating from tracker.
func NewBuilder(k kernel.Kernel, tracker *Tracker) *Builder {
	return &Builder{kernel: k, tracker: tracker}
}

// Kernel returns the geometry backend.
func (b *Builder) Kernel() kernel.Kernel {
	return b.kernel
}

// Tracker returns the buffer tracker.
func (b *Builder) Tracker() *Tracker {
	return b.tracker
}

// Build returns the procedural model for kind.
func (b *Builder) Build(kind Kind) (Model, error) {
	switch kind {
	case KindApple:
		return b.Apple()
	case KindBanana:
		return b.Banana()
	default:
		return nil, fmt.Errorf("scene: no builder for %s", kind)
	}
}

// BodySolid returns the carvable body solid of kind, centered on the origin.
func (b *Builder) BodySolid(kind Kind) (kernel.Solid, error) {
	switch kind {
	case KindApple:
		return b.kernel.Sphere(AppleRadius)
	case KindBanana:
		capsule, err := b.kernel.Capsule(BananaLength, BananaRadius)
		if err != nil {
			return nil, err
		}
		// Lie along X.
		return b.kernel.Rotate(capsule, core.Vec3{0, math.Pi / 2, 0}), nil
	default:
		return nil, fmt.Errorf("scene: no body for %s", kind)
	}
}

// Apple builds a sphere body with a cylinder stem and a flat leaf.
func (b *Builder) Apple() (Model, error) {
	body, err := b.part("body", KindApple, func() (kernel.Solid, error) { return b.BodySolid(KindApple) })
	if err != nil {
		return nil, err
	}

	stem, err := b.part("stem", KindApple, func() (kernel.Solid, error) {
		c, err := b.kernel.Cylinder(StemHeight, StemRadius)
		if err != nil {
			return nil, err
		}
		return b.kernel.Rotate(c, core.Vec3{math.Pi / 2, 0, 0}), nil
	})
	if err != nil {
		body.Geometry.Release()
		return nil, err
	}
	stem.Offset = core.Vec3{0, AppleRadius + StemHeight/2 - 0.02, 0}
	stem.Material = Material{Name: "stem", Color: core.ColorBrown}

	leaf, err := b.part("leaf", KindApple, func() (kernel.Solid, error) {
		box, err := b.kernel.Box(leafLength, leafThickness, leafWidth)
		if err != nil {
			return nil, err
		}
		return b.kernel.Rotate(box, core.Vec3{0, 0, leafTilt}), nil
	})
	if err != nil {
		body.Geometry.Release()
		stem.Geometry.Release()
		return nil, err
	}
	leaf.Offset = core.Vec3{leafLength / 2, AppleRadius + StemHeight - 0.04, 0}
	leaf.Material = Material{Name: "leaf", Color: core.ColorBrightGreen}

	return &CompositeGroup{Members: []*Part{body, stem, leaf}, Body: 0}, nil
}

// Banana builds a single capsule lying along X.
func (b *Builder) Banana() (Model, error) {
	body, err := b.part("body", KindBanana, func() (kernel.Solid, error) { return b.BodySolid(KindBanana) })
	if err != nil {
		return nil, err
	}
	return &SimpleMesh{Body: body}, nil
}

func (b *Builder) part(name string, kind Kind, solid func() (kernel.Solid, error)) (*Part, error) {
	s, err := solid()
	if err != nil {
		return nil, fmt.Errorf("scene: %s %s: %w", kind, name, err)
	}
	mesh, err := b.kernel.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("scene: %s %s mesh: %w", kind, name, err)
	}
	return &Part{
		Name:     name,
		Geometry: b.tracker.Alloc(s, mesh),
		Material: DefaultMaterial(kind),
	}, nil
}

// ParticleGeometry allocates a particle buffer referencing a shared mesh:
// small spheres for bite bursts, tetrahedral shards for explosions.
func (b *Builder) ParticleGeometry(shard bool) *Geometry {
	b.once.Do(b.buildParticleMeshes)
	if shard {
		return b.tracker.Alloc(nil, b.shard)
	}
	return b.tracker.Alloc(nil, b.bead)
}

// ParticleMeshError reports a failure building the bead mesh; bite bursts
// then fall back to shards.
func (b *Builder) ParticleMeshError() error {
	b.once.Do(b.buildParticleMeshes)
	return b.err
}

func (b *Builder) buildParticleMeshes() {
	b.shard = tetrahedron(ShardSize)
	b.bead = b.shard

	s, err := b.kernel.Sphere(BeadRadius)
	if err != nil {
		b.err = err
		return
	}
	mesh, err := b.kernel.ToMesh(s)
	if err != nil {
		b.err = err
		return
	}
	b.bead = mesh
}

// tetrahedron returns a regular tetrahedron with the given edge scale.
func tetrahedron(size float32) *kernel.Mesh {
	p := [4][3]float32{
		{size, size, size},
		{size, -size, -size},
		{-size, size, -size},
		{-size, -size, size},
	}
	faces := [4][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}

	m := &kernel.Mesh{}
	for i, f := range faces {
		a, bb, c := p[f[0]], p[f[1]], p[f[2]]
		n := faceNormal(a, bb, c)
		for j, v := range [3][3]float32{a, bb, c} {
			m.Vertices = append(m.Vertices, v[0], v[1], v[2])
			m.Normals = append(m.Normals, n[0], n[1], n[2])
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

func faceNormal(a, b, c [3]float32) [3]float32 {
	u := core.Vec3{float64(b[0] - a[0]), float64(b[1] - a[1]), float64(b[2] - a[2])}
	v := core.Vec3{float64(c[0] - a[0]), float64(c[1] - a[1]), float64(c[2] - a[2])}
	n := u.Cross(v).Normalize()
	return [3]float32{float32(n[0]), float32(n[1]), float32(n[2])}
}
