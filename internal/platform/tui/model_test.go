package tui

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/storage"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// playground wraps a model on a manual clock.
type playground struct {
	t     *testing.T
	m     Model
	clock *engine.ManualClock
}

func newPlayground(t *testing.T, w, h int) *playground {
	t.Helper()
	cfg := config.Default()
	cfg.Carve.MeshCells = 12
	cfg.Float.Amplitude = config.Range{}
	cfg.Float.RotationDrift = config.Range{}
	cfg.Spawn.LaunchSpeed = config.Range{}

	clock := engine.NewManualClock(testEpoch)
	rt := core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: 60}
	m := NewModel(cfg, rt, engine.Options{Clock: clock, Seed: 7})
	return &playground{t: t, m: m, clock: clock}
}

func (p *playground) send(msg tea.Msg) tea.Cmd {
	p.t.Helper()
	next, cmd := p.m.Update(msg)
	m, ok := next.(Model)
	if !ok {
		p.t.Fatalf("Update returned %T", next)
	}
	p.m = m
	return cmd
}

func (p *playground) tick(d time.Duration) {
	p.t.Helper()
	p.clock.Advance(d)
	if cmd := p.send(TickMsg(p.clock.Now())); cmd == nil {
		p.t.Fatal("tick did not schedule the next tick")
	}
}

func TestPlaygroundSpawnAndClear(t *testing.T) {
	p := newPlayground(t, 80, 24)
	reg := p.m.Engine().State().Registry

	p.send(runeKey('a'))
	if reg.Len() != 0 {
		t.Fatal("debug actions should wait for the tick")
	}
	p.tick(16 * time.Millisecond)
	if reg.Len() != 1 {
		t.Fatalf("expected 1 entity after 'a', got %d", reg.Len())
	}

	p.send(runeKey('b'))
	p.tick(16 * time.Millisecond)
	if reg.Len() != 2 {
		t.Fatalf("expected 2 entities after 'b', got %d", reg.Len())
	}

	p.send(runeKey('c'))
	p.tick(16 * time.Millisecond)
	if reg.Len() != 0 {
		t.Errorf("expected empty registry after 'c', got %d", reg.Len())
	}
	if p.m.Engine().State().Score != 0 {
		t.Error("clear must not score")
	}
}

func TestPlaygroundReplaysEveryActionInOrder(t *testing.T) {
	tests := []struct {
		name  string
		setup []rune
		keys  []rune
		want  int
	}{
		{"apple then banana", nil, []rune{'a', 'b'}, 2},
		{"repeated apple", nil, []rune{'a', 'a'}, 2},
		{"clear then apple", []rune{'a', 'b'}, []rune{'c', 'a'}, 1},
		{"apple then clear", nil, []rune{'a', 'c'}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayground(t, 80, 24)
			reg := p.m.Engine().State().Registry
			for _, r := range tt.setup {
				p.send(runeKey(r))
			}
			p.tick(16 * time.Millisecond)

			for _, r := range tt.keys {
				p.send(runeKey(r))
			}
			p.tick(16 * time.Millisecond)
			if reg.Len() != tt.want {
				t.Errorf("expected %d entities, got %d", tt.want, reg.Len())
			}

			p.tick(16 * time.Millisecond)
			if reg.Len() != tt.want {
				t.Errorf("actions replayed twice: %d entities", reg.Len())
			}
		})
	}
}

func TestPlaygroundEatsAnApple(t *testing.T) {
	p := newPlayground(t, 80, 24)

	p.send(runeKey('a'))
	p.tick(16 * time.Millisecond)
	p.tick(400 * time.Millisecond) // past the spawn tween

	// Steer the mouth from its start row onto the apple and open it.
	for i := 0; i < 10; i++ {
		p.send(tea.KeyMsg{Type: tea.KeyUp})
	}
	if math.Abs(p.m.Sensor().MouthY-0.5) > 1e-9 {
		t.Fatalf("mouth at y=%f", p.m.Sensor().MouthY)
	}
	p.send(runeKey('o'))

	for i := 0; i < 20 && p.m.Engine().State().Registry.Len() > 0; i++ {
		p.tick(600 * time.Millisecond)
	}

	if n := p.m.Engine().State().Registry.Len(); n != 0 {
		t.Fatalf("apple not eaten, %d entities left", n)
	}
	if score := p.m.Engine().State().Score; score != 75 {
		t.Errorf("score = %d, expected 75", score)
	}
	if !strings.Contains(p.m.View(), "SCORE 75") {
		t.Error("HUD should show the score")
	}
}

func TestPlaygroundMouseGrab(t *testing.T) {
	p := newPlayground(t, 80, 24)
	p.send(runeKey('a'))
	p.tick(16 * time.Millisecond)

	// Playfield is 22 rows below a one-row HUD; aim at its center.
	p.send(tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !p.m.Sensor().Pinching {
		t.Fatal("left press should pinch")
	}
	p.tick(16 * time.Millisecond)
	if p.m.Engine().State().Registry.Grabbed() == nil {
		t.Fatal("pinching over the apple should grab it")
	}
	if !strings.Contains(p.m.View(), "grab #1 apple") {
		t.Errorf("HUD should show the grab:\n%s", p.m.View())
	}

	p.send(tea.MouseMsg{X: 40, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	p.tick(16 * time.Millisecond)
	if p.m.Engine().State().Registry.Grabbed() != nil {
		t.Error("release should drop the apple")
	}
}

func TestPlaygroundHiddenHandReleases(t *testing.T) {
	p := newPlayground(t, 80, 24)
	p.send(runeKey('a'))
	p.tick(16 * time.Millisecond)

	p.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	p.tick(16 * time.Millisecond)
	if p.m.Engine().State().Registry.Grabbed() == nil {
		t.Fatal("space should pinch the centered apple")
	}

	p.send(runeKey('x'))
	p.tick(16 * time.Millisecond)
	if p.m.Engine().State().Registry.Grabbed() != nil {
		t.Error("losing the hand should release the grab")
	}
}

func TestPlaygroundResize(t *testing.T) {
	p := newPlayground(t, 80, 24)
	p.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	p.tick(16 * time.Millisecond)

	if p.m.screen.Width() != 100 || p.m.screen.Height() != 38 {
		t.Errorf("playfield = %dx%d, expected 100x38", p.m.screen.Width(), p.m.screen.Height())
	}
	want := 100.0 / 76.0
	if got := p.m.Engine().Mapper().Aspect(); math.Abs(got-want) > 1e-9 {
		t.Errorf("aspect = %f, expected %f", got, want)
	}

	p.send(runeKey('s'))
	if p.m.screen.Height() != 38-statusRows {
		t.Errorf("status table should take %d rows, playfield = %d", statusRows, p.m.screen.Height())
	}
}

func TestPlaygroundStatusTable(t *testing.T) {
	p := newPlayground(t, 80, 40)
	p.send(runeKey('s'))
	p.send(runeKey('a'))
	p.tick(16 * time.Millisecond)

	rows := p.m.status.Rows()
	if len(rows) != 1 || rows[0][1] != "apple" {
		t.Fatalf("status rows = %v", rows)
	}
	if !strings.Contains(p.m.View(), "score=0 entities=1") {
		t.Errorf("status summary missing:\n%s", p.m.View())
	}
}

func TestPlaygroundQuit(t *testing.T) {
	p := newPlayground(t, 80, 24)
	if cmd := p.send(runeKey('q')); cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if p.m.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestPlaygroundForwardsSnapshots(t *testing.T) {
	cfg := config.Default()
	cfg.Carve.MeshCells = 12
	var ticks []uint64
	opts := engine.Options{
		Clock:    engine.NewManualClock(testEpoch),
		Renderer: engine.RendererFunc(func(s engine.Snapshot) { ticks = append(ticks, s.Tick) }),
	}
	m := NewModel(cfg, core.DefaultConfig(), opts)
	m.Update(TickMsg(testEpoch))
	m.Update(TickMsg(testEpoch))

	if len(ticks) != 2 {
		t.Errorf("extra renderer saw %d frames, expected 2", len(ticks))
	}
}

func TestSSHSessionOptions(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	s := &SSHServer{logger: log.New(io.Discard), store: store}
	opts := s.sessionOptions("alice")
	if _, ok := opts.Sink.(*storage.Journal); !ok {
		t.Errorf("session sink = %T, expected a journal", opts.Sink)
	}
	if opts.Logger == nil {
		t.Error("session logger not set")
	}

	bare := &SSHServer{logger: log.New(io.Discard)}
	if bare.sessionOptions("bob").Sink != nil {
		t.Error("no store should mean no sink")
	}
}

func TestSSHSessionRuntime(t *testing.T) {
	s := &SSHServer{config: SSHServerConfig{TickRate: 30, Seed: 99}, logger: log.New(io.Discard)}
	rt := s.sessionRuntime(100, 40)
	if rt.ScreenW != 100 || rt.ScreenH != 40 || rt.TickRate != 30 {
		t.Errorf("runtime = %+v", rt)
	}
	if rt.Seed != 99 {
		t.Errorf("session seed = %d, expected 99", rt.Seed)
	}
}

func TestDefaultSSHServerConfig(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	if cfg.Address != ":23234" || cfg.TickRate != 60 || cfg.DBPath != storage.DefaultPath {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Engine.Validate(); err != nil {
		t.Errorf("default engine config invalid: %v", err)
	}
}

func TestResolveHostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "nested", "host_key")
	got, err := resolveHostKey(path)
	if err != nil {
		t.Fatalf("resolveHostKey() failed: %v", err)
	}
	if got != path {
		t.Errorf("resolveHostKey() = %q, expected %q", got, path)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("key directory not created: %v", err)
	}
}
