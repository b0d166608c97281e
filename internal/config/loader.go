package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the engine configuration.
// Search order: customPath -> ~/.mukbang/configs/engine.yaml -> ./configs/engine.yaml -> embedded default.
// Files are decoded over Default(), so a partial file only overrides the keys it sets.
func Load(customPath string) (EngineConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Default(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("engine.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "engine.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultEngineYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes a YAML document over Default() and validates the result.
func Parse(data []byte) (EngineConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes a configuration as YAML.
func Marshal(cfg EngineConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mukbang", "configs", filename)
}

// Validate rejects configurations the engine cannot run with.
func (c EngineConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("camera.fov", c.Camera.FOV)
	positive("camera.distance", c.Camera.Distance)
	positive("camera.aspect", c.Camera.Aspect)
	positive("spawn.duration_ms", float64(c.Spawn.DurationMS))
	positive("spawn.apple_scale", c.Spawn.AppleScale)
	positive("spawn.banana_scale", c.Spawn.BananaScale)
	positive("grab.radius", c.Grab.Radius)
	positive("bite.eat_radius", c.Bite.EatRadius)
	positive("bite.min_radius", c.Bite.MinRadius)
	positive("queue.capacity", float64(c.Queue.Capacity))
	positive("carve.mesh_cells", float64(c.Carve.MeshCells))
	positive("particles.explosion.lifetime_ms.min", c.Particles.Explosion.LifetimeMS.Min)
	positive("particles.bite.lifetime_ms.min", c.Particles.Bite.LifetimeMS.Min)

	if c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be below 180 degrees, got %v", c.Camera.FOV))
	}
	if c.Bite.MaxBites < 1 {
		errs = append(errs, fmt.Errorf("bite.max_bites must be at least 1, got %d", c.Bite.MaxBites))
	}
	if c.Bite.CooldownMS < 0 {
		errs = append(errs, fmt.Errorf("bite.cooldown_ms must not be negative, got %d", c.Bite.CooldownMS))
	}
	if c.Particles.Explosion.Count < 0 || c.Particles.Bite.Count < 0 {
		errs = append(errs, errors.New("particle counts must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
