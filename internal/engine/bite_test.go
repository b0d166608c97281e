package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

func TestSixBitesEatAnApple(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	apple := h.eng.SpawnTestApple()
	if apple == nil {
		t.Fatal("SpawnTestApple returned nil")
	}
	h.step(500 * time.Millisecond)

	for i := 1; i <= 5; i++ {
		h.mouthAt(0.5, 0.5, 0.05)
		h.step(500 * time.Millisecond)
		h.checkInvariants()

		if apple.BiteCount != i {
			t.Fatalf("after bite %d BiteCount = %d", i, apple.BiteCount)
		}
		if got := h.eng.State().Score; got != 5*i {
			t.Fatalf("after bite %d score = %d, expected %d", i, got, 5*i)
		}
		if h.eng.State().Registry.Len() != 1 {
			t.Fatalf("apple should survive bite %d", i)
		}
	}

	beforeExplosion := h.eng.State().Particles.Len()
	h.mouthAt(0.5, 0.5, 0.05)
	h.clock.Advance(500 * time.Millisecond)
	h.eng.Tick()
	h.checkInvariants()

	if apple.BiteCount != 6 {
		t.Errorf("final BiteCount = %d, expected 6", apple.BiteCount)
	}
	if !apple.Removed() || h.eng.State().Registry.Len() != 0 {
		t.Error("apple should be removed after the sixth bite")
	}
	if got := h.eng.State().Score; got != 75 {
		t.Errorf("score = %d, expected 75", got)
	}

	eaten := h.events.eaten()
	if len(eaten) != 1 {
		t.Fatalf("expected one eaten event, got %d", len(eaten))
	}
	if eaten[0].Score != 75 {
		t.Errorf("eaten score = %d, expected 75", eaten[0].Score)
	}
	if eaten[0].Timestamp != h.clock.Now().UnixMilli() {
		t.Errorf("eaten timestamp = %d, expected %d", eaten[0].Timestamp, h.clock.Now().UnixMilli())
	}

	// The explosion (50) joins whatever bite particles are still alive.
	cfg := testConfig()
	if got := h.eng.State().Particles.Len(); got < cfg.Particles.Explosion.Count {
		t.Errorf("particles = %d (was %d), expected an explosion of %d", got, beforeExplosion, cfg.Particles.Explosion.Count)
	}
	explosion := 0
	for _, p := range h.eng.State().Particles.All() {
		if p.Kind == ParticleExplosion {
			explosion++
		}
	}
	if explosion != cfg.Particles.Explosion.Count {
		t.Errorf("explosion particles = %d, expected %d", explosion, cfg.Particles.Explosion.Count)
	}
}

func TestBiteWithinCooldownIsNoOp(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	apple := h.eng.SpawnTestApple()
	h.step(500 * time.Millisecond)

	h.mouthAt(0.5, 0.5, 0.05)
	h.step(time.Millisecond)
	if apple.BiteCount != 1 {
		t.Fatalf("first bite not honored, BiteCount = %d", apple.BiteCount)
	}
	geometry := apple.Model().Target().Geometry
	score := h.eng.State().Score
	particles := h.eng.State().Particles.Len()

	h.mouthAt(0.5, 0.5, 0.05)
	h.step(100 * time.Millisecond)

	if apple.BiteCount != 1 {
		t.Errorf("second bite within cooldown counted, BiteCount = %d", apple.BiteCount)
	}
	if apple.Model().Target().Geometry != geometry {
		t.Error("geometry changed within cooldown")
	}
	if h.eng.State().Score != score {
		t.Errorf("score changed within cooldown: %d -> %d", score, h.eng.State().Score)
	}
	if got := h.eng.State().Particles.Len(); got != particles {
		t.Errorf("particles emitted within cooldown: %d -> %d", particles, got)
	}
	if len(h.events.bitten()) != 1 {
		t.Errorf("expected exactly one bitten event, got %d", len(h.events.bitten()))
	}
}

func TestCooldownIsSharedAcrossEntities(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	a := h.eng.SpawnNow(scene.KindApple, 0.5, 0.5)
	b := h.eng.SpawnNow(scene.KindApple, 0.505, 0.5)
	h.step(500 * time.Millisecond)

	h.mouthAt(0.5, 0.5, 0.05)
	h.step(time.Millisecond)

	if a.BiteCount+b.BiteCount != 1 {
		t.Errorf("one frame should bite exactly one fruit, got %d and %d", a.BiteCount, b.BiteCount)
	}
	if a.BiteCount != 1 {
		t.Error("the first fruit in registry order should be bitten")
	}
}

func TestClosedMouthDoesNotBite(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	apple := h.eng.SpawnTestApple()
	h.step(500 * time.Millisecond)

	h.mouthAt(0.5, 0.5, 0.01)
	h.step(time.Millisecond)

	if apple.BiteCount != 0 || h.eng.State().Score != 0 {
		t.Errorf("openness below threshold bit the apple: bites=%d score=%d", apple.BiteCount, h.eng.State().Score)
	}
	if h.eng.State().Mouth.Sample == nil {
		t.Error("mouth should still be tracked for the indicator")
	}
}

func TestMouthOutOfReachDoesNotBite(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	apple := h.eng.SpawnTestApple()
	h.step(500 * time.Millisecond)

	h.mouthAt(0.9, 0.9, 0.05)
	h.step(time.Millisecond)

	if apple.BiteCount != 0 {
		t.Errorf("distant mouth bit the apple, BiteCount = %d", apple.BiteCount)
	}
}

func TestMissingMouthHidesIndicator(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	h.mouthAt(0.5, 0.5, 0.05)
	h.step(time.Millisecond)
	h.noHand()
	h.step(time.Millisecond)
	if h.eng.State().Mouth.Sample != nil {
		t.Error("frame without a mouth should hide the mouth")
	}
}

func TestSuccessfulCarveReplacesGeometry(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	apple := h.eng.SpawnTestApple()
	h.step(500 * time.Millisecond)

	before := apple.Model().Target().Geometry

	// Aim at the right edge of the body so the bite removes a notch.
	w, _ := h.eng.Mapper().Visible()
	h.mouthAt(0.5+0.3/w, 0.5, 0.05)
	h.step(time.Millisecond)

	if len(h.events.bitten()) != 1 || h.events.bitten()[0].Degraded {
		t.Fatalf("expected one non-degraded bite, got %+v", h.events.bitten())
	}
	after := apple.Model().Target().Geometry
	if after == before {
		t.Fatal("carve should swap the geometry buffer")
	}
	if !before.Released() {
		t.Error("old buffer should be released")
	}
	if apple.Original() == nil {
		t.Error("original geometry should be cached on the first carve")
	}
	if after.Mesh().IsEmpty() {
		t.Error("carved mesh should not be empty")
	}

	// Apple parts (3) + carved original + bite particles are live.
	want := 3 + 1 + h.eng.State().Particles.Len()
	if got := h.eng.Tracker().Live(); got != want {
		t.Errorf("live buffers = %d, expected %d", got, want)
	}

	h.eng.ClearAll()
	h.eng.State().Particles.Clear()
	if got := h.eng.Tracker().Live(); got != 0 {
		t.Errorf("live buffers after clear = %d, expected 0", got)
	}
}

func TestFailedCarveStillCounts(t *testing.T) {
	for _, panics := range []bool{false, true} {
		name := "error"
		if panics {
			name = "panic"
		}
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			h := newHarness(t, cfg, failingKernelOver(cfg, panics))
			apple := h.eng.SpawnTestApple()
			h.step(500 * time.Millisecond)
			geometry := apple.Model().Target().Geometry

			h.mouthAt(0.5, 0.5, 0.05)
			h.step(time.Millisecond)

			if apple.BiteCount != 1 {
				t.Fatalf("degraded bite should count, BiteCount = %d", apple.BiteCount)
			}
			if h.eng.State().Score != 5 {
				t.Errorf("degraded bite score = %d, expected 5", h.eng.State().Score)
			}
			if apple.Model().Target().Geometry != geometry {
				t.Error("mesh must be unchanged after a failed carve")
			}
			if apple.Original() != nil {
				t.Error("nothing should be cached when the carve failed")
			}
			if h.eng.State().Particles.Len() != cfg.Particles.Bite.Count {
				t.Errorf("bite burst particles = %d, expected %d", h.eng.State().Particles.Len(), cfg.Particles.Bite.Count)
			}
			bitten := h.events.bitten()
			if len(bitten) != 1 || !bitten[0].Degraded {
				t.Errorf("expected one degraded bite event, got %+v", bitten)
			}
		})
	}
}

func TestDegradedBitesStillFinishTheFruit(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, failingKernelOver(cfg, false))
	apple := h.eng.SpawnTestApple()
	h.step(500 * time.Millisecond)

	for i := 0; i < cfg.Bite.MaxBites; i++ {
		h.mouthAt(0.5, 0.5, 0.05)
		h.step(cfg.Bite.Cooldown())
	}
	if !apple.Removed() {
		t.Fatal("the game must progress even when carving is unavailable")
	}
	if h.eng.State().Score != 75 {
		t.Errorf("score = %d, expected 75", h.eng.State().Score)
	}
}

func TestEatenWhileGrabbedClearsGrab(t *testing.T) {
	h := newHarness(t, testConfig(), nil)
	apple := h.eng.SpawnTestApple()
	h.step(500 * time.Millisecond)

	h.hand(0.5, 0.5, true)
	h.step(time.Millisecond)
	if h.eng.State().Grabbed != apple {
		t.Fatal("apple should be grabbed")
	}

	for i := 0; i < 6; i++ {
		h.eng.Submit(SensorFrame{
			Hand:  &HandSample{X: 0.5, Y: 0.5, Pinching: true},
			Mouth: &MouthSample{TopX: 0.5, BottomX: 0.5, TopY: 0.475, BottomY: 0.525, Open: true},
		})
		h.step(500 * time.Millisecond)
		h.checkInvariants()
	}
	if !apple.Removed() {
		t.Fatal("apple should be eaten")
	}
	if h.eng.State().Grabbed != nil {
		t.Error("grab pointer should be cleared when the grabbed fruit is eaten")
	}
}
