package engine

import (
	"time"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// Entity is one fruit in the scene.
type Entity struct {
	ID   int
	Kind scene.Kind

	Position     core.Vec3
	Rotation     core.Vec3 // Euler radians
	Velocity     core.Vec3 // decorative, set at spawn
	BasePosition core.Vec3 // anchor of the floating motion
	Scale        float64
	TargetScale  float64

	BiteCount int
	MaxBites  int
	Grabbed   bool

	FloatAmplitude float64
	FloatSpeed     float64 // radians per second
	FloatPhase     float64
	RotationDrift  core.Vec3 // radians per tick

	SpawnedAt time.Time

	model    scene.Model
	original *scene.Geometry // carve target before the first bite
	removed  bool
}

// Model returns the entity's geometry model.
func (e *Entity) Model() scene.Model {
	return e.model
}

// Original returns the cached pre-carve geometry, or nil before the first carve.
func (e *Entity) Original() *scene.Geometry {
	return e.original
}

// Removed reports whether the entity has left the registry.
func (e *Entity) Removed() bool {
	return e.removed
}

// release frees every geometry buffer the entity owns.
func (e *Entity) release() {
	if e.model != nil {
		e.model.Release()
	}
	if e.original != nil {
		e.original.Release()
		e.original = nil
	}
}

// Registry owns the live entities in insertion order.
type Registry struct {
	entities []*Entity
	nextID   int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends e and assigns its ID.
func (r *Registry) Add(e *Entity) {
	r.nextID++
	e.ID = r.nextID
	r.entities = append(r.entities, e)
}

// Get returns the entity with id.
func (r *Registry) Get(id int) (*Entity, bool) {
	for _, e := range r.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Remove deletes the entity and releases its geometry. It returns false if
// the entity is not registered, so a second removal is a no-op.
func (r *Registry) Remove(id int) bool {
	for i, e := range r.entities {
		if e.ID != id {
			continue
		}
		r.entities = append(r.entities[:i], r.entities[i+1:]...)
		e.removed = true
		e.Grabbed = false
		e.release()
		return true
	}
	return false
}

// Clear removes every entity and returns how many were removed.
func (r *Registry) Clear() int {
	n := len(r.entities)
	for _, e := range r.entities {
		e.removed = true
		e.Grabbed = false
		e.release()
	}
	r.entities = nil
	return n
}

// All returns the entities in insertion order. The slice must not be retained
// across a Remove.
func (r *Registry) All() []*Entity {
	return r.entities
}

// Len returns the number of entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Grabbed returns the grabbed entity, if any.
func (r *Registry) Grabbed() *Entity {
	for _, e := range r.entities {
		if e.Grabbed {
			return e
		}
	}
	return nil
}
