// Package engine is the fruit interaction engine: coordinate mapping, the
// entity registry with spawn animation, the pinch grab, mouth-driven bite
// carving, burst particles and the per-frame scheduler that ties them
// together.
//
// All state lives in one State value owned by the Engine. Inbound commands
// are queued by Submit (safe from any goroutine) and applied at the start of
// the next Tick. Everything else, including the debug calls, must run on the
// goroutine that calls Tick.
package engine

import (
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-mukbang/internal/assets"
	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel/sdfx"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// Test spawn positions of the debug surface.
const (
	TestAppleX, TestAppleY   = 0.5, 0.5
	TestBananaX, TestBananaY = 0.3, 0.5
)

// Options wires the engine's collaborators. Zero values get defaults.
type Options struct {
	Logger   *log.Logger     // default: discard
	Clock    Clock           // default: SystemClock
	Kernel   kernel.Kernel   // default: sdfx at carve.mesh_cells
	Assets   assets.Provider // default: library at assets.dir
	Sink     EventSink       // default: discard
	Renderer Renderer        // default: none
	Seed     uint64          // overrides config seed when non-zero
}

// Engine runs the game.
type Engine struct {
	cfg    config.EngineConfig
	logger *log.Logger
	clock  Clock
	sink   EventSink
	render Renderer

	kernel  kernel.Kernel
	builder *scene.Builder
	assets  assets.Provider
	rng     *rand.Rand

	mapper    *Mapper
	animator  *SpawnAnimator
	grab      *GrabController
	biter     *BiteEngine
	particles *ParticleSystem

	state   *State
	queue   chan Command
	ticking bool
	ticks   uint64
}

// New creates an engine. cfg must be valid.
func New(cfg config.EngineConfig, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	sink := opts.Sink
	if sink == nil {
		sink = discardSink{}
	}
	k := opts.Kernel
	if k == nil {
		k = sdfx.New(cfg.Carve.MeshCells)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(cfg.Seed)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	builder := scene.NewBuilder(k, scene.NewTracker())
	if err := builder.ParticleMeshError(); err != nil {
		logger.Warn("bite particle mesh unavailable, using shards", "err", err)
	}
	provider := opts.Assets
	if provider == nil {
		provider = assets.NewLibrary(cfg.Assets.Dir, builder, logger)
	}

	mapper := NewMapper(cfg.Camera)
	grab := NewGrabController(cfg.Grab, mapper, logger)
	particles := NewParticleSystem(cfg.Particles, builder, rng)

	return &Engine{
		cfg:       cfg,
		logger:    logger,
		clock:     clock,
		sink:      sink,
		render:    opts.Renderer,
		kernel:    k,
		builder:   builder,
		assets:    provider,
		rng:       rng,
		mapper:    mapper,
		animator:  NewSpawnAnimator(cfg.Spawn.Duration()),
		grab:      grab,
		biter:     NewBiteEngine(cfg.Bite, k, mapper, grab, logger),
		particles: particles,
		state: &State{
			Registry:  NewRegistry(),
			Particles: particles,
			Started:   clock.Now(),
		},
		queue: make(chan Command, cfg.Queue.Capacity),
	}
}

// Submit queues a command for the next tick. It never blocks: when the
// queue is full the command is dropped and Submit returns false.
func (e *Engine) Submit(cmd Command) bool {
	select {
	case e.queue <- cmd:
		return true
	default:
		e.logger.Warn("command queue full, dropping command", "type", commandName(cmd))
		return false
	}
}

// Tick runs one frame: apply queued commands, advance spawn animations,
// age and move particles, float the entities, then render.
func (e *Engine) Tick() {
	if !e.enter("tick") {
		return
	}
	defer e.leave()

	now := e.clock.Now()
	e.ticks++

	// Only commands already queued belong to this frame.
	for n := len(e.queue); n > 0; n-- {
		e.apply(<-e.queue, now)
	}

	e.animator.Update(now)
	e.particles.Update(now)
	e.floatEntities(now)

	if e.render != nil {
		e.render.Render(e.snapshot(now))
	}
}

func (e *Engine) apply(cmd Command, now time.Time) {
	switch c := cmd.(type) {
	case SensorFrame:
		e.grab.Update(e.state, c.Hand)
		e.publish(e.biter.Update(e.state, c.Mouth, now)...)
	case SpawnCommand:
		e.spawn(c.Kind, c.X, c.Y, now)
	case ClearCommand:
		e.clear()
	case ResizeCommand:
		e.mapper.SetAspect(c.Aspect)
	default:
		e.logger.Error("unknown command", "type", commandName(cmd))
	}
}

// floatEntities advances idle motion for free entities and keeps the grabbed one
// anchored where it is held.
func (e *Engine) floatEntities(now time.Time) {
	t := now.Sub(e.state.Started).Seconds()
	for _, ent := range e.state.Registry.All() {
		if ent.Grabbed {
			ent.BasePosition = ent.Position
			continue
		}
		phase := t*ent.FloatSpeed + ent.FloatPhase
		ent.Position = ent.BasePosition.Add(core.Vec3{
			math.Cos(t*ent.FloatSpeed*0.7+ent.FloatPhase) * ent.FloatAmplitude * 0.5,
			math.Sin(phase) * ent.FloatAmplitude,
			0,
		})
		ent.Rotation = ent.Rotation.Add(ent.RotationDrift)
	}
}

func (e *Engine) spawn(kind scene.Kind, x, y float64, now time.Time) *Entity {
	model, err := e.assets.Model(kind)
	if err != nil {
		e.logger.Error("spawn failed", "kind", kind, "err", err)
		return nil
	}

	pos := e.mapper.Map(x, y, 0)
	fc := e.cfg.Float
	ent := &Entity{
		Kind:           kind,
		Position:       pos,
		BasePosition:   pos,
		Velocity:       randomDirection(e.rng).Mul(e.cfg.Spawn.LaunchSpeed.Sample(e.rng)),
		TargetScale:    e.targetScale(kind),
		MaxBites:       e.cfg.Bite.MaxBites,
		FloatAmplitude: fc.Amplitude.Sample(e.rng),
		FloatSpeed:     fc.Speed.Sample(e.rng),
		FloatPhase:     fc.Phase.Sample(e.rng),
		RotationDrift: core.Vec3{
			fc.RotationDrift.Sample(e.rng),
			fc.RotationDrift.Sample(e.rng),
			fc.RotationDrift.Sample(e.rng),
		},
		SpawnedAt: now,
		model:     model,
	}
	e.state.Registry.Add(ent)
	e.animator.Start(ent, now)

	e.logger.Info("spawned", "id", ent.ID, "kind", kind, "x", x, "y", y)
	e.publish(SpawnedEvent{EntityID: ent.ID, Kind: kind})
	return ent
}

func (e *Engine) targetScale(kind scene.Kind) float64 {
	if kind == scene.KindBanana {
		return e.cfg.Spawn.BananaScale
	}
	return e.cfg.Spawn.AppleScale
}

// clear removes every entity without explosions or score.
func (e *Engine) clear() int {
	e.state.Grabbed = nil
	n := e.state.Registry.Clear()
	e.logger.Info("cleared", "count", n)
	e.publish(ClearedEvent{Count: n})
	return n
}

func (e *Engine) publish(events ...Event) {
	for _, ev := range events {
		e.sink.Publish(ev)
	}
}

// enter guards against reentering the engine from a sink or renderer.
func (e *Engine) enter(op string) bool {
	if e.ticking {
		e.logger.Error("reentrant engine call refused", "op", op)
		return false
	}
	e.ticking = true
	return true
}

func (e *Engine) leave() {
	e.ticking = false
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case SensorFrame:
		return "sensor"
	case SpawnCommand:
		return "spawn"
	case ClearCommand:
		return "clear"
	case ResizeCommand:
		return "resize"
	default:
		return "unknown"
	}
}

// SpawnTestApple spawns an apple at the screen center immediately.
func (e *Engine) SpawnTestApple() *Entity {
	return e.SpawnNow(scene.KindApple, TestAppleX, TestAppleY)
}

// SpawnTestBanana spawns a banana left of center immediately.
func (e *Engine) SpawnTestBanana() *Entity {
	return e.SpawnNow(scene.KindBanana, TestBananaX, TestBananaY)
}

// SpawnNow spawns synchronously, bypassing the command queue.
func (e *Engine) SpawnNow(kind scene.Kind, x, y float64) *Entity {
	if !e.enter("spawn") {
		return nil
	}
	defer e.leave()
	return e.spawn(kind, x, y, e.clock.Now())
}

// ClearAll removes every entity synchronously and returns the count.
func (e *Engine) ClearAll() int {
	if !e.enter("clear") {
		return 0
	}
	defer e.leave()
	return e.clear()
}

// SetAspect updates the camera aspect synchronously.
func (e *Engine) SetAspect(aspect float64) {
	e.mapper.SetAspect(aspect)
}

// Status returns the diagnostic summary.
func (e *Engine) Status() Status {
	st := e.state
	now := e.clock.Now()
	s := Status{
		Particles:    st.Particles.Len(),
		Score:        st.Score,
		Cooldown:     st.CooldownRemaining(now, e.cfg.Bite.Cooldown()),
		Queued:       len(e.queue),
		LiveGeometry: e.builder.Tracker().Live(),
		Ticks:        e.ticks,
	}
	if st.Grabbed != nil {
		s.GrabbedID = st.Grabbed.ID
	}
	if flagged := st.Registry.Grabbed(); flagged != st.Grabbed {
		s.GrabMismatch = true
		e.logger.Error("grab state out of sync", "grabbed", s.GrabbedID, "flagged", flagged != nil)
	}
	for _, ent := range st.Registry.All() {
		s.Entities = append(s.Entities, EntityStatus{
			ID:        ent.ID,
			Kind:      ent.Kind,
			X:         ent.Position[0],
			Y:         ent.Position[1],
			Z:         ent.Position[2],
			Scale:     ent.Scale,
			BiteCount: ent.BiteCount,
			MaxBites:  ent.MaxBites,
			Grabbed:   ent.Grabbed,
			Carved:    ent.original != nil,
		})
	}
	return s
}

// State exposes the game state for inspection. Callers must not mutate it.
func (e *Engine) State() *State {
	return e.state
}

// Mapper returns the coordinate mapper.
func (e *Engine) Mapper() *Mapper {
	return e.mapper
}

// Tracker returns the geometry buffer tracker.
func (e *Engine) Tracker() *scene.Tracker {
	return e.builder.Tracker()
}

// Config returns the engine configuration.
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// Now returns the engine clock's time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}
