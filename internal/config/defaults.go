package config

import (
	_ "embed"
	"math"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the hard-coded engine configuration. It matches
// defaults/engine.yaml and is the last fallback of Load.
func Default() EngineConfig {
	return EngineConfig{
		Queue: QueueConfig{
			Capacity: 256,
		},
		Camera: CameraConfig{
			FOV:        75,
			Distance:   5,
			Aspect:     4.0 / 3.0,
			DepthScale: 3,
		},
		Spawn: SpawnConfig{
			DurationMS:  300,
			AppleScale:  1.0,
			BananaScale: 1.0,
			LaunchSpeed: Range{Min: 0, Max: 0.02},
		},
		Float: FloatConfig{
			Amplitude:     Range{Min: 0.05, Max: 0.12},
			Speed:         Range{Min: 0.8, Max: 1.6},
			Phase:         Range{Min: 0, Max: 2 * math.Pi},
			RotationDrift: Range{Min: -0.01, Max: 0.01},
		},
		Grab: GrabConfig{
			Radius:       0.5,
			RotationGain: 10,
		},
		Bite: BiteConfig{
			OpennessThreshold: 0.02,
			EatRadius:         0.4,
			CooldownMS:        500,
			MaxBites:          6,
			MinRadius:         0.15,
			RadiusScale:       5,
			BitePoints:        5,
			DestroyPoints:     50,
		},
		Particles: ParticleConfig{
			Explosion: BurstConfig{
				Count:      50,
				Speed:      Range{Min: 0.05, Max: 0.15},
				UpwardBias: 0.02,
				Gravity:    -0.002,
				LifetimeMS: Range{Min: 1000, Max: 1500},
				Spin:       0.2,
			},
			Bite: BurstConfig{
				Count:      15,
				Speed:      Range{Min: 0.02, Max: 0.05},
				LifetimeMS: Range{Min: 500, Max: 800},
				Spin:       0.1,
			},
		},
		Carve: CarveConfig{
			MeshCells: 40,
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultEngineYAML
}
