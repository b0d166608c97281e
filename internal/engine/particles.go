package engine

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// ParticleKind distinguishes burst effects.
type ParticleKind int

const (
	ParticleExplosion ParticleKind = iota // tetrahedral shards, with gravity
	ParticleBite                          // small spheres, no gravity
)

func (k ParticleKind) String() string {
	if k == ParticleExplosion {
		return "explosion"
	}
	return "bite"
}

// Particle is one short-lived effect fragment.
type Particle struct {
	Kind          ParticleKind
	Position      core.Vec3
	Velocity      core.Vec3
	Rotation      core.Vec3
	RotationDrift core.Vec3
	Gravity       float64
	Color         core.Color
	CreatedAt     time.Time
	Lifetime      time.Duration
	Opacity       float64
	Scale         float64

	geometry *scene.Geometry
}

// Geometry returns the particle's render buffer.
func (p *Particle) Geometry() *scene.Geometry {
	return p.geometry
}

// ParticleSystem owns every live particle.
type ParticleSystem struct {
	cfg       config.ParticleConfig
	builder   *scene.Builder
	rng       *rand.Rand
	particles []*Particle
}

// NewParticleSystem creates an empty particle system.
func NewParticleSystem(cfg config.ParticleConfig, builder *scene.Builder, rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{cfg: cfg, builder: builder, rng: rng}
}

// EmitExplosion spawns an explosion burst at pos.
func (ps *ParticleSystem) EmitExplosion(pos core.Vec3, color core.Color, now time.Time) {
	ps.emit(ParticleExplosion, ps.cfg.Explosion, pos, color, now)
}

// EmitBite spawns a bite burst at pos.
func (ps *ParticleSystem) EmitBite(pos core.Vec3, color core.Color, now time.Time) {
	ps.emit(ParticleBite, ps.cfg.Bite, pos, color, now)
}

func (ps *ParticleSystem) emit(kind ParticleKind, burst config.BurstConfig, pos core.Vec3, color core.Color, now time.Time) {
	for i := 0; i < burst.Count; i++ {
		vel := randomDirection(ps.rng).Mul(burst.Speed.Sample(ps.rng))
		vel[1] += burst.UpwardBias

		ps.particles = append(ps.particles, &Particle{
			Kind:     kind,
			Position: pos,
			Velocity: vel,
			RotationDrift: core.Vec3{
				(ps.rng.Float64()*2 - 1) * burst.Spin,
				(ps.rng.Float64()*2 - 1) * burst.Spin,
				(ps.rng.Float64()*2 - 1) * burst.Spin,
			},
			Gravity:   burst.Gravity,
			Color:     color,
			CreatedAt: now,
			Lifetime:  time.Duration(burst.LifetimeMS.Sample(ps.rng) * float64(time.Millisecond)),
			Opacity:   1,
			Scale:     1,
			geometry:  ps.builder.ParticleGeometry(kind == ParticleExplosion),
		})
	}
}

// randomDirection returns a unit vector uniformly distributed over the sphere.
func randomDirection(rng *rand.Rand) core.Vec3 {
	z := rng.Float64()*2 - 1
	phi := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return core.Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// Update purges particles older than their lifetime, then integrates the
// rest one tick. It returns the number purged.
func (ps *ParticleSystem) Update(now time.Time) int {
	purged := 0
	for i := 0; i < len(ps.particles); {
		p := ps.particles[i]
		if now.Sub(p.CreatedAt) > p.Lifetime {
			p.geometry.Release()
			last := len(ps.particles) - 1
			ps.particles[i] = ps.particles[last]
			ps.particles[last] = nil
			ps.particles = ps.particles[:last]
			purged++
			continue
		}
		i++
	}

	for _, p := range ps.particles {
		p.Velocity[1] += p.Gravity
		p.Position = p.Position.Add(p.Velocity)
		p.Rotation = p.Rotation.Add(p.RotationDrift)

		t := 0.0
		if p.Lifetime > 0 {
			t = core.ClampF(float64(now.Sub(p.CreatedAt))/float64(p.Lifetime), 0, 1)
		}
		p.Opacity = 1 - t
		p.Scale = 1 - 0.5*t
	}
	return purged
}

// Len returns the number of live particles.
func (ps *ParticleSystem) Len() int {
	return len(ps.particles)
}

// All returns the live particles.
func (ps *ParticleSystem) All() []*Particle {
	return ps.particles
}

// Clear releases every particle.
func (ps *ParticleSystem) Clear() {
	for _, p := range ps.particles {
		p.geometry.Release()
	}
	ps.particles = nil
}
