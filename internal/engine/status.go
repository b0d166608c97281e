package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// EntityStatus is one row of the diagnostic status.
type EntityStatus struct {
	ID        int
	Kind      scene.Kind
	X, Y, Z   float64
	Scale     float64
	BiteCount int
	MaxBites  int
	Grabbed   bool
	Carved    bool
}

// Status is a diagnostic summary of the engine.
type Status struct {
	Entities     []EntityStatus
	Particles    int
	Score        int
	GrabbedID    int  // 0 when nothing is grabbed
	GrabMismatch bool // the grab controller and the entity flags disagree
	Cooldown     time.Duration
	Queued       int
	LiveGeometry int
	Ticks        uint64
}

// String renders the status as plain text lines.
func (s Status) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "score=%d entities=%d particles=%d grabbed=%d cooldown=%s queued=%d geometry=%d ticks=%d\n",
		s.Score, len(s.Entities), s.Particles, s.GrabbedID, s.Cooldown, s.Queued, s.LiveGeometry, s.Ticks)
	if s.GrabMismatch {
		b.WriteString("  grab state out of sync\n")
	}
	for _, e := range s.Entities {
		fmt.Fprintf(&b, "  #%d %-6s pos=(%.2f, %.2f, %.2f) scale=%.2f bites=%d/%d grabbed=%t carved=%t\n",
			e.ID, e.Kind, e.X, e.Y, e.Z, e.Scale, e.BiteCount, e.MaxBites, e.Grabbed, e.Carved)
	}
	return b.String()
}
