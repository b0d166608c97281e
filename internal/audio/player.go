package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/fruit-mukbang/internal/engine"
)

// Player turns engine events into cues. It implements engine.EventSink and
// stays silent until Init succeeds.
type Player struct {
	volume float64
	logger *log.Logger

	mu     sync.Mutex
	mixer  *beep.Mixer
	output func(beep.Streamer)
	seed   uint64
	played map[Cue]int
}

// NewPlayer creates a silent player.
func NewPlayer(volume float64, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{volume: volume, logger: logger, played: make(map[Cue]int)}
}

// Init opens the speaker. On failure the player stays silent and the error
// is returned for the caller to log.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output != nil {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	p.mixer = &beep.Mixer{}
	speaker.Play(p.mixer)
	p.output = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	return nil
}

// Close silences the player.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mixer != nil {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
	}
	p.output = nil
}

// Publish plays the cue for ev, if any.
func (p *Player) Publish(ev engine.Event) {
	cue, ok := CueFor(ev)
	if !ok {
		return
	}
	p.Play(cue)
}

// Play queues one cue.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output == nil {
		return
	}
	p.seed++
	p.played[c]++
	p.output(c.Streamer(p.volume, p.seed))
	p.logger.Debug("cue", "name", c)
}

// Played returns how many times c has been played.
func (p *Player) Played(c Cue) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played[c]
}

// CueFor maps an engine event to its cue.
func CueFor(ev engine.Event) (Cue, bool) {
	switch ev.(type) {
	case engine.BittenEvent:
		return CueBite, true
	case engine.EatenEvent:
		return CueExplosion, true
	case engine.SpawnedEvent:
		return CueSpawn, true
	}
	return 0, false
}
