package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
)

// ErrNoGeometry is reported when an entity has no carvable solid.
var ErrNoGeometry = errors.New("engine: entity has no carvable geometry")

// BiteEngine carves bites out of entities near an open mouth and retires
// fully eaten ones.
type BiteEngine struct {
	cfg    config.BiteConfig
	kernel kernel.Kernel
	mapper *Mapper
	grab   *GrabController
	logger *log.Logger
}

// NewBiteEngine creates a bite engine.
func NewBiteEngine(cfg config.BiteConfig, k kernel.Kernel, mapper *Mapper, grab *GrabController, logger *log.Logger) *BiteEngine {
	return &BiteEngine{cfg: cfg, kernel: k, mapper: mapper, grab: grab, logger: logger}
}

// Update applies one mouth reading and returns the resulting events.
// A nil mouth hides the mouth and attempts nothing.
func (b *BiteEngine) Update(st *State, mouth *MouthSample, now time.Time) []Event {
	st.Mouth.Sample = mouth
	if mouth == nil {
		return nil
	}
	mx, my := mouth.Center()
	mouthWorld := b.mapper.Map(mx, my, 0)
	st.Mouth.World = mouthWorld

	openness := mouth.Openness()
	if openness < b.cfg.OpennessThreshold {
		return nil
	}

	var events []Event
	// Iterate a copy: a destroy removes from the registry.
	candidates := append([]*Entity(nil), st.Registry.All()...)
	for _, e := range candidates {
		if core.Distance(e.Position, mouthWorld) >= b.cfg.EatRadius {
			continue
		}
		// One cooldown for the whole scene.
		if st.CooldownRemaining(now, b.cfg.Cooldown()) > 0 {
			break
		}
		events = append(events, b.bite(st, e, mouthWorld, openness, now)...)
	}
	return events
}

// bite performs one bite on e. A failed carve still counts.
func (b *BiteEngine) bite(st *State, e *Entity, mouthWorld core.Vec3, openness float64, now time.Time) []Event {
	if e.BiteCount >= e.MaxBites {
		return []Event{b.destroy(st, e, now)}
	}

	radius := math.Max(b.cfg.MinRadius, openness*b.cfg.RadiusScale)
	degraded := false
	if err := b.carve(e, mouthWorld, radius); err != nil {
		degraded = true
		b.logger.Warn("carve failed, counting bite without mesh change", "id", e.ID, "kind", e.Kind, "err", err)
	}

	e.BiteCount++
	st.LastBite = now
	st.Particles.EmitBite(mouthWorld, e.Kind.Color(), now)

	if e.BiteCount >= e.MaxBites {
		bitten := BittenEvent{EntityID: e.ID, Kind: e.Kind, BiteCount: e.BiteCount, Degraded: degraded, Score: st.Score}
		return []Event{bitten, b.destroy(st, e, now)}
	}

	st.Score += b.cfg.BitePoints
	b.logger.Debug("bite", "id", e.ID, "kind", e.Kind, "bites", e.BiteCount, "radius", radius, "degraded", degraded)
	return []Event{BittenEvent{EntityID: e.ID, Kind: e.Kind, BiteCount: e.BiteCount, Degraded: degraded, Score: st.Score}}
}

// carve subtracts a sphere of the given world radius at mouthWorld from the
// entity's target part and swaps in the result. Backend panics are reported
// as errors.
func (b *BiteEngine) carve(e *Entity, mouthWorld core.Vec3, radius float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: carve panicked: %v", r)
		}
	}()

	if e.model == nil {
		return ErrNoGeometry
	}
	part := e.model.Target()
	if part == nil || part.Geometry == nil || part.Geometry.Solid() == nil {
		return ErrNoGeometry
	}

	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}
	local := core.WorldToLocal(mouthWorld, e.Position, e.Rotation, scale).Sub(part.Offset)

	tool, err := b.kernel.Sphere(radius / scale)
	if err != nil {
		return fmt.Errorf("engine: bite solid: %w", err)
	}
	tool = b.kernel.Translate(tool, local)

	result, err := b.kernel.Boolean(kernel.Difference, part.Geometry.Solid(), tool)
	if err != nil {
		return fmt.Errorf("engine: subtract: %w", err)
	}
	mesh, err := b.kernel.ToMesh(result)
	if err != nil {
		return fmt.Errorf("engine: tessellate: %w", err)
	}

	if e.original == nil {
		e.original = part.Geometry.Clone()
	}
	old := part.Geometry
	part.Geometry = old.Derive(result, mesh)
	old.Release()
	return nil
}

// destroy retires a fully eaten entity.
func (b *BiteEngine) destroy(st *State, e *Entity, now time.Time) Event {
	st.Particles.EmitExplosion(e.Position, e.Kind.Color(), now)
	b.grab.Forget(st, e)
	st.Registry.Remove(e.ID)
	st.Score += b.cfg.DestroyPoints
	b.logger.Info("eaten", "id", e.ID, "kind", e.Kind, "score", st.Score)
	return EatenEvent{EntityID: e.ID, Kind: e.Kind, Score: st.Score, Timestamp: now.UnixMilli()}
}
