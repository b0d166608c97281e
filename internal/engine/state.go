package engine

import (
	"time"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
)

// HandState is the single tracked hand, including the previous frame's
// normalized position for rotation deltas.
type HandState struct {
	Sample       *HandSample // nil when no hand is tracked
	World        core.Vec3
	PrevX, PrevY float64
	HasPrev      bool
}

// MouthState is the latest tracked mouth.
type MouthState struct {
	Sample *MouthSample // nil when no face is tracked
	World  core.Vec3
}

// State is the whole mutable game state. The engine owns exactly one and
// hands it to each component; nothing else holds game state.
type State struct {
	Registry  *Registry
	Particles *ParticleSystem
	Hand      HandState
	Mouth     MouthState
	Grabbed   *Entity
	Score     int
	LastBite  time.Time // zero until the first bite
	Started   time.Time
}

// CooldownRemaining returns how long until the next bite may happen.
func (s *State) CooldownRemaining(now time.Time, cooldown time.Duration) time.Duration {
	if s.LastBite.IsZero() {
		return 0
	}
	left := cooldown - now.Sub(s.LastBite)
	if left < 0 {
		return 0
	}
	return left
}
