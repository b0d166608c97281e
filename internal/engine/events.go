package engine

import "github.com/vovakirdan/fruit-mukbang/internal/scene"

// Event is an outbound notification emitted by the engine.
type Event interface {
	event()
}

// SpawnedEvent is emitted when a fruit enters the scene.
type SpawnedEvent struct {
	EntityID int
	Kind     scene.Kind
}

func (SpawnedEvent) event() {}

// BittenEvent is emitted for every counted bite, carved or degraded.
type BittenEvent struct {
	EntityID  int
	Kind      scene.Kind
	BiteCount int
	Degraded  bool // the bite counted but the mesh did not change
	Score     int
}

func (BittenEvent) event() {}

// EatenEvent is emitted once per fully eaten fruit.
type EatenEvent struct {
	EntityID  int
	Kind      scene.Kind
	Score     int
	Timestamp int64 // Unix milliseconds
}

func (EatenEvent) event() {}

// ClearedEvent is emitted after a clear-all.
type ClearedEvent struct {
	Count int
}

func (ClearedEvent) event() {}

// EventSink receives engine events on the engine goroutine. Sinks must not
// block and must not call back into the engine.
type EventSink interface {
	Publish(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

// Publish calls f(ev).
func (f SinkFunc) Publish(ev Event) {
	f(ev)
}

// MultiSink fans events out to several sinks.
type MultiSink []EventSink

// Publish forwards ev to every non-nil sink.
func (m MultiSink) Publish(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(ev)
		}
	}
}

type discardSink struct{}

func (discardSink) Publish(Event) {}
