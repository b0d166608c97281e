package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel/sdfx"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// testConfig returns defaults with a coarse mesh and no idle motion, so
// entity positions are exact.
func testConfig() config.EngineConfig {
	cfg := config.Default()
	cfg.Carve.MeshCells = 12
	cfg.Float.Amplitude = config.Range{}
	cfg.Float.RotationDrift = config.Range{}
	cfg.Spawn.LaunchSpeed = config.Range{}
	return cfg
}

// recorder collects published events.
type recorder struct {
	events []Event
}

func (r *recorder) Publish(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) eaten() []EatenEvent {
	var out []EatenEvent
	for _, ev := range r.events {
		if e, ok := ev.(EatenEvent); ok {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) bitten() []BittenEvent {
	var out []BittenEvent
	for _, ev := range r.events {
		if e, ok := ev.(BittenEvent); ok {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	t      *testing.T
	eng    *Engine
	clock  *ManualClock
	events *recorder
}

func newHarness(t *testing.T, cfg config.EngineConfig, k kernel.Kernel) *harness {
	t.Helper()
	if k == nil {
		k = sdfx.New(cfg.Carve.MeshCells)
	}
	clock := NewManualClock(testEpoch)
	rec := &recorder{}
	eng := New(cfg, Options{Clock: clock, Kernel: k, Sink: rec, Seed: 42})
	return &harness{t: t, eng: eng, clock: clock, events: rec}
}

// step advances the clock by d and runs one tick.
func (h *harness) step(d time.Duration) {
	h.clock.Advance(d)
	h.eng.Tick()
}

// mouthAt submits an open mouth centered on (x, y) with the given openness.
func (h *harness) mouthAt(x, y, openness float64) {
	h.t.Helper()
	ok := h.eng.Submit(SensorFrame{Mouth: &MouthSample{
		TopX: x, BottomX: x,
		TopY: y - openness/2, BottomY: y + openness/2,
		Open: true,
	}})
	if !ok {
		h.t.Fatal("Submit refused a sensor frame")
	}
}

func (h *harness) hand(x, y float64, pinching bool) {
	h.t.Helper()
	if !h.eng.Submit(SensorFrame{Hand: &HandSample{X: x, Y: y, Pinching: pinching}}) {
		h.t.Fatal("Submit refused a sensor frame")
	}
}

func (h *harness) noHand() {
	h.eng.Submit(SensorFrame{})
}

// checkInvariants asserts the bite bounds and the single-grab rule.
func (h *harness) checkInvariants() {
	h.t.Helper()
	grabbed := 0
	for _, e := range h.eng.State().Registry.All() {
		if e.BiteCount < 0 || e.BiteCount > e.MaxBites {
			h.t.Fatalf("entity %d bite count %d outside [0, %d]", e.ID, e.BiteCount, e.MaxBites)
		}
		if e.Grabbed {
			grabbed++
		}
	}
	if grabbed > 1 {
		h.t.Fatalf("%d entities grabbed at once", grabbed)
	}
	if h.eng.Tracker().DoubleReleases() != 0 {
		h.t.Fatalf("geometry released twice %d times", h.eng.Tracker().DoubleReleases())
	}
}

// failingKernel builds primitives normally but cannot subtract.
type failingKernel struct {
	kernel.Kernel
	panics bool
}

var errBooleanUnavailable = errors.New("boolean unavailable")

func (f failingKernel) Boolean(op kernel.Op, a, b kernel.Solid) (kernel.Solid, error) {
	if f.panics {
		panic("backend exploded")
	}
	return nil, errBooleanUnavailable
}

func failingKernelOver(cfg config.EngineConfig, panics bool) failingKernel {
	return failingKernel{Kernel: sdfx.New(cfg.Carve.MeshCells), panics: panics}
}

// noSphereKernel refuses to build spheres.
type noSphereKernel struct {
	kernel.Kernel
}

func (noSphereKernel) Sphere(float64) (kernel.Solid, error) {
	return nil, errors.New("no spheres")
}
