package scene

import (
	"sync"

	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
)

// Tracker accounts for geometry buffers. Every buffer it allocates must be
// released exactly once; Live reports how many are still held.
type Tracker struct {
	mu             sync.Mutex
	nextID         uint64
	live           int
	doubleReleases int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Alloc registers a new buffer holding the given solid and mesh.
// The mesh is referenced, not copied.
func (t *Tracker) Alloc(solid kernel.Solid, mesh *kernel.Mesh) *Geometry {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.live++
	return &Geometry{id: t.nextID, solid: solid, mesh: mesh, tracker: t}
}

// Live returns the number of unreleased buffers.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// DoubleReleases returns how many times an already released buffer was
// released again. Non-zero means an ownership bug.
func (t *Tracker) DoubleReleases() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.doubleReleases
}

func (t *Tracker) release(g *Geometry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if g.released {
		t.doubleReleases++
		return false
	}
	g.released = true
	t.live--
	return true
}

// Geometry is one exclusively owned geometry buffer: a carvable solid plus
// its tessellated mesh.
type Geometry struct {
	id       uint64
	solid    kernel.Solid
	mesh     *kernel.Mesh
	tracker  *Tracker
	released bool
}

// ID returns the tracker-unique buffer id.
func (g *Geometry) ID() uint64 {
	return g.id
}

// Solid returns the carvable solid; nil when the buffer has none.
func (g *Geometry) Solid() kernel.Solid {
	return g.solid
}

// Mesh returns the render mesh.
func (g *Geometry) Mesh() *kernel.Mesh {
	return g.mesh
}

// Released reports whether Release has been called.
func (g *Geometry) Released() bool {
	g.tracker.mu.Lock()
	defer g.tracker.mu.Unlock()
	return g.released
}

// Release frees the buffer. It returns false if it was already released.
func (g *Geometry) Release() bool {
	if g == nil {
		return false
	}
	return g.tracker.release(g)
}

// Clone allocates a new buffer with a deep copy of the mesh. Solids are
// immutable and shared.
func (g *Geometry) Clone() *Geometry {
	return g.tracker.Alloc(g.solid, g.mesh.Clone())
}

// Derive allocates a new buffer from the same tracker, used when a carve
// replaces this buffer's contents.
func (g *Geometry) Derive(solid kernel.Solid, mesh *kernel.Mesh) *Geometry {
	return g.tracker.Alloc(solid, mesh)
}
