package engine

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
)

// GrabController attaches at most one entity to the pinching hand.
type GrabController struct {
	radius float64
	gain   float64
	mapper *Mapper
	logger *log.Logger
}

// NewGrabController creates a controller.
func NewGrabController(cfg config.GrabConfig, mapper *Mapper, logger *log.Logger) *GrabController {
	return &GrabController{radius: cfg.Radius, gain: cfg.RotationGain, mapper: mapper, logger: logger}
}

// Update applies one hand reading. A nil hand releases any grab.
func (g *GrabController) Update(st *State, hand *HandSample) {
	st.Hand.Sample = hand
	if hand == nil {
		g.release(st)
		st.Hand.HasPrev = false
		return
	}

	world := g.mapper.Map(hand.X, hand.Y, hand.Z)
	st.Hand.World = world

	if !hand.Pinching {
		g.release(st)
	} else if st.Grabbed == nil {
		g.acquire(st, world)
	}

	if e := st.Grabbed; e != nil {
		e.Position = world
		if st.Hand.HasPrev {
			e.Rotation[1] += (hand.X - st.Hand.PrevX) * g.gain
			e.Rotation[0] += (hand.Y - st.Hand.PrevY) * g.gain
		}
	}

	st.Hand.PrevX, st.Hand.PrevY = hand.X, hand.Y
	st.Hand.HasPrev = true
}

// acquire grabs the first entity in registry order within reach.
func (g *GrabController) acquire(st *State, world core.Vec3) {
	for _, e := range st.Registry.All() {
		if e.Grabbed {
			continue
		}
		if core.Distance(e.Position, world) < g.radius {
			e.Grabbed = true
			st.Grabbed = e
			g.logger.Debug("grabbed", "id", e.ID, "kind", e.Kind)
			return
		}
	}
}

// release drops the grabbed entity where it is; floating resumes from there.
func (g *GrabController) release(st *State) {
	e := st.Grabbed
	if e == nil {
		return
	}
	e.Grabbed = false
	e.BasePosition = e.Position
	st.Grabbed = nil
	g.logger.Debug("released", "id", e.ID, "at", e.Position)
}

// Forget clears the grab pointer if it references e.
func (g *GrabController) Forget(st *State, e *Entity) {
	if st.Grabbed == e {
		st.Grabbed = nil
	}
}
