package scene

import "github.com/vovakirdan/fruit-mukbang/internal/core"

// Part is one mesh of a model, placed at Offset in the model's local frame.
type Part struct {
	Name     string
	Geometry *Geometry
	Offset   core.Vec3
	Material Material
}

// Model is the resolved geometry of a fruit. It is either a SimpleMesh or a
// CompositeGroup; the carvable part is chosen once, when the model is built.
type Model interface {
	// Target returns the part bites are carved from.
	Target() *Part
	// Parts returns every part in draw order.
	Parts() []*Part
	// Release frees every part's geometry.
	Release()

	model()
}

// SimpleMesh is a model made of a single carvable mesh.
type SimpleMesh struct {
	Body *Part
}

func (m *SimpleMesh) model() {}

func (m *SimpleMesh) Target() *Part {
	return m.Body
}

func (m *SimpleMesh) Parts() []*Part {
	return []*Part{m.Body}
}

func (m *SimpleMesh) Release() {
	m.Body.Geometry.Release()
}

// CompositeGroup is a model made of several meshes. Members[Body] is carved;
// the other members are decoration.
type CompositeGroup struct {
	Members []*Part
	Body    int
}

func (m *CompositeGroup) model() {}

func (m *CompositeGroup) Target() *Part {
	if m.Body < 0 || m.Body >= len(m.Members) {
		return nil
	}
	return m.Members[m.Body]
}

func (m *CompositeGroup) Parts() []*Part {
	return m.Members
}

func (m *CompositeGroup) Release() {
	for _, p := range m.Members {
		p.Geometry.Release()
	}
}
