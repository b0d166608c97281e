package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/fruit-mukbang/internal/engine"
)

// drain streams s to completion and returns the sample count and peak.
func drain(t *testing.T, s beep.Streamer) (n int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		k, ok := s.Stream(buf)
		for j := 0; j < k; j++ {
			if v := buf[j][0]; v > peak {
				peak = v
			} else if -v > peak {
				peak = -v
			}
		}
		n += k
		if !ok {
			return n, peak
		}
	}
	t.Fatal("stream never ended")
	return
}

func TestSweepLength(t *testing.T) {
	tests := []struct {
		name string
		wave WaveType
	}{
		{"sine", WaveSine},
		{"square", WaveSquare},
		{"noise", WaveNoise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSweep(200, 400, 100*time.Millisecond, tt.wave, SampleRate, 1)
			n, peak := drain(t, s)
			if n != SampleRate.N(100*time.Millisecond) {
				t.Errorf("streamed %d samples, expected %d", n, SampleRate.N(100*time.Millisecond))
			}
			if peak > 1 {
				t.Errorf("peak %f out of range", peak)
			}
			if s.Err() != nil {
				t.Errorf("Err() = %v", s.Err())
			}
		})
	}
}

func TestSquareValues(t *testing.T) {
	s := NewSweep(220, 220, 10*time.Millisecond, WaveSquare, SampleRate, 1)
	buf := make([][2]float64, 64)
	n, _ := s.Stream(buf)
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v != 1 && v != -1 {
			t.Fatalf("sample %d = %f", i, v)
		}
	}
}

func TestEnvelopeRampsAndEnds(t *testing.T) {
	rate := beep.SampleRate(1000)
	src := NewSweep(0, 0, time.Second, WaveSquare, rate, 1) // phase stays 0: constant +1
	env := NewEnvelope(src, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, 200)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("envelope streamed %d samples, expected 100", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("attack should start silent, got %f", buf[0][0])
	}
	if buf[50][0] != 1 {
		t.Errorf("sustain should pass through, got %f", buf[50][0])
	}
	if buf[99][0] >= buf[90][0] {
		t.Errorf("release should fall: %f then %f", buf[90][0], buf[99][0])
	}
}

func TestCueStreamers(t *testing.T) {
	for _, c := range []Cue{CueBite, CueExplosion, CueSpawn} {
		t.Run(c.String(), func(t *testing.T) {
			n, peak := drain(t, c.Streamer(1, 7))
			if want := SampleRate.N(c.Duration()); n != want {
				t.Errorf("streamed %d samples, expected %d", n, want)
			}
			if peak == 0 {
				t.Error("cue is silent")
			}
		})
	}

	if _, peak := drain(t, CueBite.Streamer(0, 1)); peak != 0 {
		t.Errorf("zero volume peak = %f", peak)
	}
}

func TestCueFor(t *testing.T) {
	tests := []struct {
		ev   engine.Event
		want Cue
		ok   bool
	}{
		{engine.BittenEvent{}, CueBite, true},
		{engine.EatenEvent{}, CueExplosion, true},
		{engine.SpawnedEvent{}, CueSpawn, true},
		{engine.ClearedEvent{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := CueFor(tt.ev)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CueFor(%T) = %v, %t", tt.ev, got, ok)
		}
	}
}

func TestPlayerSilentUntilInit(t *testing.T) {
	p := NewPlayer(1, nil)
	p.Publish(engine.BittenEvent{})
	if p.Played(CueBite) != 0 {
		t.Error("uninitialized player should not play")
	}

	var got []beep.Streamer
	p.output = func(s beep.Streamer) { got = append(got, s) }
	p.Publish(engine.BittenEvent{})
	p.Publish(engine.EatenEvent{})
	p.Publish(engine.ClearedEvent{})

	if len(got) != 2 || p.Played(CueBite) != 1 || p.Played(CueExplosion) != 1 {
		t.Errorf("played %d streams, bite=%d explosion=%d", len(got), p.Played(CueBite), p.Played(CueExplosion))
	}

	p.Close()
	p.Publish(engine.SpawnedEvent{})
	if p.Played(CueSpawn) != 0 {
		t.Error("closed player should not play")
	}
}
