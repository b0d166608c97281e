package engine

import "github.com/vovakirdan/fruit-mukbang/internal/scene"

// Command is an inbound request for the engine. Commands are queued by
// Submit and applied at the start of the next tick, in arrival order.
type Command interface {
	command()
}

// HandSample is one tracked-hand reading in normalized coordinates.
type HandSample struct {
	X, Y, Z  float64
	Pinching bool
}

// MouthSample is one tracked-mouth reading in normalized coordinates.
type MouthSample struct {
	TopX, TopY       float64
	BottomX, BottomY float64
	Open             bool
}

// Openness is the vertical gap between the lips.
func (m MouthSample) Openness() float64 {
	return m.BottomY - m.TopY
}

// Center returns the normalized midpoint between the lips.
func (m MouthSample) Center() (x, y float64) {
	return (m.TopX + m.BottomX) / 2, (m.TopY + m.BottomY) / 2
}

// SensorFrame carries one sensor reading. A nil Hand means no hand was
// tracked; a nil Mouth means no face was tracked.
type SensorFrame struct {
	Hand      *HandSample
	Mouth     *MouthSample
	Timestamp int64 // sender clock, milliseconds
}

func (SensorFrame) command() {}

// SpawnCommand creates a fruit at a normalized screen position.
type SpawnCommand struct {
	Kind scene.Kind
	X, Y float64
}

func (SpawnCommand) command() {}

// ClearCommand removes every fruit without explosions or score.
type ClearCommand struct{}

func (ClearCommand) command() {}

// ResizeCommand updates the camera aspect ratio.
type ResizeCommand struct {
	Aspect float64
}

func (ResizeCommand) command() {}
