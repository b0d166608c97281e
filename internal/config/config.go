// Package config provides YAML-based engine configuration: camera model,
// spawn animation, floating motion, grab and bite tuning, particle bursts,
// carving resolution and asset location.
package config

import (
	"math/rand/v2"
	"time"
)

// EngineConfig contains every tunable of the interaction engine.
type EngineConfig struct {
	Seed      int64          `yaml:"seed"` // 0 = derive from the current time
	Queue     QueueConfig    `yaml:"queue"`
	Camera    CameraConfig   `yaml:"camera"`
	Spawn     SpawnConfig    `yaml:"spawn"`
	Float     FloatConfig    `yaml:"float"`
	Grab      GrabConfig     `yaml:"grab"`
	Bite      BiteConfig     `yaml:"bite"`
	Particles ParticleConfig `yaml:"particles"`
	Carve     CarveConfig    `yaml:"carve"`
	Assets    AssetConfig    `yaml:"assets"`
}

// QueueConfig sizes the inbound command queue.
type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

// CameraConfig describes the perspective camera looking at the origin.
type CameraConfig struct {
	FOV        float64 `yaml:"fov"`         // vertical field of view, degrees
	Distance   float64 `yaml:"distance"`    // camera distance to the origin plane
	Aspect     float64 `yaml:"aspect"`      // width / height
	DepthScale float64 `yaml:"depth_scale"` // world units per normalized depth unit
}

// SpawnConfig controls entity creation.
type SpawnConfig struct {
	DurationMS  int     `yaml:"duration_ms"` // scale-in window
	AppleScale  float64 `yaml:"apple_scale"`
	BananaScale float64 `yaml:"banana_scale"`
	LaunchSpeed Range   `yaml:"launch_speed"` // decorative initial velocity
}

// Duration returns the spawn animation window.
func (s SpawnConfig) Duration() time.Duration {
	return time.Duration(s.DurationMS) * time.Millisecond
}

// FloatConfig holds the per-entity idle motion ranges sampled at spawn.
type FloatConfig struct {
	Amplitude     Range `yaml:"amplitude"`
	Speed         Range `yaml:"speed"` // radians per second
	Phase         Range `yaml:"phase"`
	RotationDrift Range `yaml:"rotation_drift"` // radians per tick, per axis
}

// GrabConfig tunes the pinch grab.
type GrabConfig struct {
	Radius       float64 `yaml:"radius"`
	RotationGain float64 `yaml:"rotation_gain"`
}

// BiteConfig tunes mouth-driven carving and scoring.
type BiteConfig struct {
	OpennessThreshold float64 `yaml:"openness_threshold"`
	EatRadius         float64 `yaml:"eat_radius"`
	CooldownMS        int     `yaml:"cooldown_ms"`
	MaxBites          int     `yaml:"max_bites"`
	MinRadius         float64 `yaml:"min_radius"`
	RadiusScale       float64 `yaml:"radius_scale"` // bite radius per unit of openness
	BitePoints        int     `yaml:"bite_points"`
	DestroyPoints     int     `yaml:"destroy_points"`
}

// Cooldown returns the global minimum time between carve operations.
func (b BiteConfig) Cooldown() time.Duration {
	return time.Duration(b.CooldownMS) * time.Millisecond
}

// BurstConfig describes one particle burst kind.
type BurstConfig struct {
	Count      int     `yaml:"count"`
	Speed      Range   `yaml:"speed"`
	UpwardBias float64 `yaml:"upward_bias"`
	Gravity    float64 `yaml:"gravity"`     // added to vertical velocity every tick
	LifetimeMS Range   `yaml:"lifetime_ms"` // sampled per particle
	Spin       float64 `yaml:"spin"`        // max rotation drift per tick, per axis
}

// ParticleConfig groups the two burst kinds.
type ParticleConfig struct {
	Explosion BurstConfig `yaml:"explosion"`
	Bite      BurstConfig `yaml:"bite"`
}

// CarveConfig controls tessellation of carved solids.
type CarveConfig struct {
	MeshCells int `yaml:"mesh_cells"` // marching cubes cells along the longest axis
}

// AssetConfig locates optional pre-built fruit models.
type AssetConfig struct {
	Dir string `yaml:"dir"` // directory holding apple.3mf / banana.3mf; empty disables loading
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws a uniform value from the range.
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
