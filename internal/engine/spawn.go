package engine

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scaleTween grows one entity from zero to its target scale.
type scaleTween struct {
	entity *Entity
	tween  *gween.Tween
	last   time.Time
}

// SpawnAnimator drives the scale-in of newly spawned entities with an
// ease-out cubic curve. A tween ends by itself when its window elapses or
// when its entity leaves the registry.
type SpawnAnimator struct {
	duration time.Duration
	active   []*scaleTween
}

// NewSpawnAnimator creates an animator with the given scale-in window.
func NewSpawnAnimator(duration time.Duration) *SpawnAnimator {
	return &SpawnAnimator{duration: duration}
}

// Start sets the entity's scale to zero and begins its scale-in.
func (a *SpawnAnimator) Start(e *Entity, now time.Time) {
	e.Scale = 0
	a.active = append(a.active, &scaleTween{
		entity: e,
		tween:  gween.New(0, float32(e.TargetScale), float32(a.duration.Seconds()), ease.OutCubic),
		last:   now,
	})
}

// Update advances every running tween to now.
func (a *SpawnAnimator) Update(now time.Time) {
	n := 0
	for _, st := range a.active {
		if st.entity.Removed() {
			continue
		}
		dt := now.Sub(st.last)
		if dt < 0 {
			dt = 0
		}
		st.last = now
		val, finished := st.tween.Update(float32(dt.Seconds()))
		if finished {
			st.entity.Scale = st.entity.TargetScale
			continue
		}
		st.entity.Scale = float64(val)
		a.active[n] = st
		n++
	}
	for i := n; i < len(a.active); i++ {
		a.active[i] = nil
	}
	a.active = a.active[:n]
}

// Active returns the number of running scale-ins.
func (a *SpawnAnimator) Active() int {
	return len(a.active)
}
