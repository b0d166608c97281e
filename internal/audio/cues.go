package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue names a feedback sound.
type Cue int

const (
	CueBite Cue = iota
	CueExplosion
	CueSpawn
)

func (c Cue) String() string {
	switch c {
	case CueBite:
		return "bite"
	case CueExplosion:
		return "explosion"
	case CueSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// Cue lengths.
const (
	BiteDuration      = 90 * time.Millisecond
	ExplosionDuration = 450 * time.Millisecond
	SpawnDuration     = 120 * time.Millisecond
)

// Duration returns the length of the cue.
func (c Cue) Duration() time.Duration {
	switch c {
	case CueBite:
		return BiteDuration
	case CueExplosion:
		return ExplosionDuration
	default:
		return SpawnDuration
	}
}

// Streamer synthesizes the cue at volume (0..1). seed varies the noise.
func (c Cue) Streamer(volume float64, seed uint64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueBite:
		// Crunch: a burst of noise over a low thud.
		noise := NewEnvelope(NewSweep(0, 0, BiteDuration, WaveNoise, SampleRate, seed),
			BiteDuration, 2*time.Millisecond, 60*time.Millisecond, SampleRate)
		thud := NewEnvelope(NewSweep(160, 90, BiteDuration, WaveSine, SampleRate, seed),
			BiteDuration, time.Millisecond, 70*time.Millisecond, SampleRate)
		s = beep.Mix(newVolume(noise, 0.5), newVolume(thud, 0.5))
	case CueExplosion:
		// Falling square sweep under decaying noise.
		fall := NewEnvelope(NewSweep(440, 55, ExplosionDuration, WaveSquare, SampleRate, seed),
			ExplosionDuration, 5*time.Millisecond, 350*time.Millisecond, SampleRate)
		noise := NewEnvelope(NewSweep(0, 0, ExplosionDuration, WaveNoise, SampleRate, seed+1),
			ExplosionDuration, time.Millisecond, 400*time.Millisecond, SampleRate)
		s = beep.Mix(newVolume(fall, 0.35), newVolume(noise, 0.65))
	default:
		// Rising blip.
		s = NewEnvelope(NewSweep(520, 1040, SpawnDuration, WaveSine, SampleRate, seed),
			SpawnDuration, 10*time.Millisecond, 60*time.Millisecond, SampleRate)
	}
	return newVolume(s, volume)
}
