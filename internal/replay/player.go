package replay

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/protocol"
)

// Result summarizes a finished replay.
type Result struct {
	Records  int
	Rejected int
	Dropped  int
	Ticks    int
	Eaten    []engine.EatenEvent
	Status   engine.Status
}

// Player feeds recorded messages into a headless engine on a manual clock.
type Player struct {
	cfg    config.EngineConfig
	fps    int
	logger *log.Logger
	sink   engine.EventSink
}

// NewPlayer creates a player ticking at fps. sink, if non-nil, also receives
// every engine event.
func NewPlayer(cfg config.EngineConfig, fps int, logger *log.Logger, sink engine.EventSink) *Player {
	if fps <= 0 {
		fps = 60
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{cfg: cfg, fps: fps, logger: logger, sink: sink}
}

// Play replays records in order. A record is submitted before the first tick
// whose time reaches its offset; one more second is ticked after the last
// record so that animations and particles settle.
func (p *Player) Play(records []Record) (Result, error) {
	start := time.UnixMilli(0).UTC()
	clock := engine.NewManualClock(start)

	var res Result
	sinks := engine.MultiSink{engine.SinkFunc(func(ev engine.Event) {
		if e, ok := ev.(engine.EatenEvent); ok {
			res.Eaten = append(res.Eaten, e)
		}
	})}
	if p.sink != nil {
		sinks = append(sinks, p.sink)
	}
	seed := uint64(p.cfg.Seed)
	if seed == 0 {
		seed = 1
	}
	eng := engine.New(p.cfg, engine.Options{Logger: p.logger, Clock: clock, Sink: sinks, Seed: seed})

	frame := time.Second / time.Duration(p.fps)
	var end time.Duration
	if n := len(records); n > 0 {
		end = time.Duration(records[n-1].OffsetMS) * time.Millisecond
	}
	end += time.Second

	next := 0
	for elapsed := time.Duration(0); elapsed <= end; elapsed += frame {
		clock.Set(start.Add(elapsed))
		for next < len(records) && time.Duration(records[next].OffsetMS)*time.Millisecond <= elapsed {
			rec := records[next]
			next++
			res.Records++
			cmd, err := protocol.Decode(rec.Msg)
			if err != nil {
				res.Rejected++
				p.logger.Warn("skipping record", "offset_ms", rec.OffsetMS, "err", err)
				continue
			}
			if !eng.Submit(cmd) {
				res.Dropped++
			}
		}
		eng.Tick()
		res.Ticks++
	}

	res.Status = eng.Status()
	if res.Records != len(records) {
		return res, fmt.Errorf("replay: %d of %d records played", res.Records, len(records))
	}
	return res, nil
}

// PlayFile reads and replays a session file.
func (p *Player) PlayFile(path string) (Result, error) {
	records, err := ReadAll(path)
	if err != nil {
		return Result{}, err
	}
	return p.Play(records)
}
