package engine

import (
	"time"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// Renderer receives the scene at the end of every tick. It runs on the
// engine goroutine and must not call back into the engine.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

// Render calls f(s).
func (f RendererFunc) Render(s Snapshot) {
	f(s)
}

// PartView is one drawable mesh of an entity.
type PartView struct {
	Name   string
	Offset core.Vec3
	Color  core.Color
	Mesh   *kernel.Mesh // shared, read-only
}

// EntityView is the drawable state of one entity.
type EntityView struct {
	ID        int
	Kind      scene.Kind
	Position  core.Vec3
	Rotation  core.Vec3
	Scale     float64
	BiteCount int
	MaxBites  int
	Grabbed   bool
	Parts     []PartView
}

// ParticleView is the drawable state of one particle.
type ParticleView struct {
	Kind     ParticleKind
	Position core.Vec3
	Rotation core.Vec3
	Scale    float64
	Opacity  float64
	Color    core.Color
}

// HandView is the tracked hand indicator.
type HandView struct {
	World    core.Vec3
	Pinching bool
}

// MouthView is the tracked mouth indicator.
type MouthView struct {
	World    core.Vec3
	Openness float64
	Open     bool
}

// Snapshot is an immutable copy of what a renderer needs for one frame.
type Snapshot struct {
	Time      time.Time
	Tick      uint64
	Score     int
	VisibleW  float64
	VisibleH  float64
	Entities  []EntityView
	Particles []ParticleView
	Hand      *HandView  // nil when no hand is tracked
	Mouth     *MouthView // nil when no face is tracked
}

// Unmap returns the normalized screen position of a render-space point on
// the origin plane of this frame.
func (s Snapshot) Unmap(p core.Vec3) (x, y float64) {
	return unmap(p, s.VisibleW, s.VisibleH)
}

func (e *Engine) snapshot(now time.Time) Snapshot {
	st := e.state
	w, h := e.mapper.Visible()
	snap := Snapshot{
		Time:      now,
		Tick:      e.ticks,
		Score:     st.Score,
		VisibleW:  w,
		VisibleH:  h,
		Entities:  make([]EntityView, 0, st.Registry.Len()),
		Particles: make([]ParticleView, 0, st.Particles.Len()),
	}

	for _, ent := range st.Registry.All() {
		view := EntityView{
			ID:        ent.ID,
			Kind:      ent.Kind,
			Position:  ent.Position,
			Rotation:  ent.Rotation,
			Scale:     ent.Scale,
			BiteCount: ent.BiteCount,
			MaxBites:  ent.MaxBites,
			Grabbed:   ent.Grabbed,
		}
		if ent.model != nil {
			for _, p := range ent.model.Parts() {
				pv := PartView{Name: p.Name, Offset: p.Offset, Color: p.Material.Color}
				if p.Geometry != nil {
					pv.Mesh = p.Geometry.Mesh()
				}
				view.Parts = append(view.Parts, pv)
			}
		}
		snap.Entities = append(snap.Entities, view)
	}

	for _, p := range st.Particles.All() {
		snap.Particles = append(snap.Particles, ParticleView{
			Kind:     p.Kind,
			Position: p.Position,
			Rotation: p.Rotation,
			Scale:    p.Scale,
			Opacity:  p.Opacity,
			Color:    p.Color,
		})
	}

	if hs := st.Hand.Sample; hs != nil {
		snap.Hand = &HandView{World: st.Hand.World, Pinching: hs.Pinching}
	}
	if ms := st.Mouth.Sample; ms != nil {
		snap.Mouth = &MouthView{World: st.Mouth.World, Openness: ms.Openness(), Open: ms.Open}
	}
	return snap
}
